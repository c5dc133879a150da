package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getImageSignedUrl",
		Method:      http.MethodPost,
		Path:        "/api/v1/images/sign",
		Summary:     "Request a signed upload URL",
		Description: "Issues a time-limited signed URL for uploading one image into the temporary namespace. The returned key must be referenced when publishing the offer.",
		Tags:        []string{"Images"},
	}, s.handleGetImageSignedURL)
}

// SignUploadRequest describes the image the client intends to upload.
type SignUploadRequest struct {
	ContentType   string `json:"content_type" doc:"MIME type of the image (image/jpeg, image/png, image/webp)"`
	ContentLength int64  `json:"content_length" doc:"Exact size of the upload in bytes"`
}

// SignUploadInput wraps the sign request for Huma.
type SignUploadInput struct {
	Authorization string `header:"Authorization"`
	Body          SignUploadRequest
}

// SignUploadResponse is the issued upload ticket.
type SignUploadResponse struct {
	Key       string    `json:"key" doc:"Temporary object key to reference when publishing"`
	URL       string    `json:"url" doc:"Signed PUT URL"`
	ExpiresAt time.Time `json:"expires_at" doc:"When the signed URL stops working"`
}

// SignUploadOutput wraps the upload ticket for Huma.
type SignUploadOutput struct {
	Body SignUploadResponse
}

func (s *Server) handleGetImageSignedURL(ctx context.Context, input *SignUploadInput) (*SignUploadOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ticket, err := s.services.Images.SignUpload(ctx, user.ID, input.Body.ContentType, input.Body.ContentLength)
	if err != nil {
		return nil, err
	}

	return &SignUploadOutput{Body: SignUploadResponse{
		Key:       ticket.Key,
		URL:       ticket.URL,
		ExpiresAt: ticket.ExpiresAt,
	}}, nil
}

// handleUpload accepts the PUT a signed URL points at. It verifies the
// signature over exactly the parameters that were signed, then streams the
// body into the object store.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	q := r.URL.Query()

	contentType := q.Get("ct")
	contentLength, err := strconv.ParseInt(q.Get("len"), 10, 64)
	if err != nil {
		http.Error(w, "invalid content length", http.StatusBadRequest)
		return
	}
	expires, err := strconv.ParseInt(q.Get("exp"), 10, 64)
	if err != nil {
		http.Error(w, "invalid expiry", http.StatusBadRequest)
		return
	}

	if err := s.objects.VerifyPut(key, contentType, contentLength, expires, q.Get("sig")); err != nil {
		s.logger.Warn("rejected upload", "key", key, "error", err)
		http.Error(w, "invalid or expired upload URL", http.StatusForbidden)
		return
	}

	if err := s.objects.Put(r.Context(), key, r.Body, contentLength); err != nil {
		s.logger.Error("upload failed", "key", key, "error", err)
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleServeImage streams a stored image to the client. Only the permanent
// namespace is public: staged uploads stay private until promoted.
func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if strings.HasPrefix(key, s.cfg.Storage.TempPrefix) {
		http.NotFound(w, r)
		return
	}

	rc, err := s.objects.Open(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("failed to stream image", "key", key, "error", err)
	}
}
