// Package api provides the HTTP API server and handlers for the Oferta
// application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ofertaapp/oferta-server/internal/config"
	"github.com/ofertaapp/oferta-server/internal/objstore"
	"github.com/ofertaapp/oferta-server/internal/ratelimit"
	"github.com/ofertaapp/oferta-server/internal/service"
	"github.com/ofertaapp/oferta-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    *service.Services
	objects     *objstore.FS
	cfg         *config.Config
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	authLimiter *ratelimit.Limiter
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(cfg *config.Config, st store.Store, services *service.Services, objects *objstore.FS, logger *slog.Logger) *Server {
	s := &Server{
		store:    st,
		services: services,
		objects:  objects,
		cfg:      cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		// Auth endpoints get 20 attempts per minute per client IP.
		authLimiter: ratelimit.New(20.0/60.0, 10),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Oferta API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	RegisterErrorHandler()
	s.api = humachi.New(s.router, humaConfig)

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerImageRoutes()
	s.registerOfferRoutes()
	s.registerProductRoutes()
	s.registerCommerceRoutes()

	// Raw routes that bypass huma: binary upload and image serving.
	s.router.Put("/api/v1/uploads/{key}", s.handleUpload)
	s.router.Get("/images/{key}", s.handleServeImage)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.authRateLimit)
}

// requestLogger logs one line per request through the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
