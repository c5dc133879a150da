// Package service implements the application's business logic on top of the
// store and object storage layers. Handlers stay thin; the rules live here.
package service

import (
	"log/slog"
	"time"

	"github.com/ofertaapp/oferta-server/internal/auth"
	"github.com/ofertaapp/oferta-server/internal/config"
	"github.com/ofertaapp/oferta-server/internal/objstore"
	"github.com/ofertaapp/oferta-server/internal/store"
	"github.com/ofertaapp/oferta-server/internal/validation"
)

// Services bundles all application services for injection into the API layer.
type Services struct {
	Auth      *AuthService
	Images    *ImageService
	Offers    *OfferService
	Products  *ProductService
	Commerces *CommerceService
}

// New wires up the full service set.
func New(st store.Store, objects objstore.Store, tokens *auth.TokenService, cfg *config.Config, logger *slog.Logger) *Services {
	validate := validation.New()

	images := NewImageService(objects, cfg.Storage, logger)

	return &Services{
		Auth:      NewAuthService(st, tokens, validate, logger),
		Images:    images,
		Offers:    NewOfferService(st, images, validate, logger, time.Now),
		Products:  NewProductService(st, validate),
		Commerces: NewCommerceService(st, validate),
	}
}
