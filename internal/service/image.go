package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ofertaapp/oferta-server/internal/config"
	"github.com/ofertaapp/oferta-server/internal/errors"
	"github.com/ofertaapp/oferta-server/internal/objstore"
)

// maxUploadSize caps offer image uploads at 10 MiB.
const maxUploadSize = 10 << 20

// allowedImageTypes are the content types accepted for offer images.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadTicket is a signed, time-limited permission to PUT one image into
// the temporary namespace.
type UploadTicket struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImageService manages the two-phase image lifecycle: clients upload into a
// temporary prefixed namespace, and publishing an offer promotes the object
// to a permanent key. Unpromoted temporaries are swept out after a TTL.
type ImageService struct {
	objects    objstore.Store
	tempPrefix string
	presignTTL time.Duration
	tempTTL    time.Duration
	logger     *slog.Logger
}

// NewImageService creates an image service over the given object store.
func NewImageService(objects objstore.Store, cfg config.StorageConfig, logger *slog.Logger) *ImageService {
	return &ImageService{
		objects:    objects,
		tempPrefix: cfg.TempPrefix,
		presignTTL: cfg.PresignTTL,
		tempTTL:    cfg.TempObjectTTL,
		logger:     logger.With("component", "images"),
	}
}

// SignUpload issues a presigned PUT for a new temporary image object.
// The key is server-generated; the caller never picks object names.
func (s *ImageService) SignUpload(ctx context.Context, userID, contentType string, contentLength int64) (*UploadTicket, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, errors.Validationf("unsupported image type %q", contentType)
	}
	if contentLength <= 0 {
		return nil, errors.Validation("content length must be positive")
	}
	if contentLength > maxUploadSize {
		return nil, errors.Validationf("image exceeds maximum size of %d bytes", maxUploadSize)
	}

	key := s.tempPrefix + uuid.NewString() + ext

	url, err := s.objects.PresignPut(ctx, objstore.PutRequest{
		Key:           key,
		ContentType:   contentType,
		ContentLength: contentLength,
		Metadata:      map[string]string{"uploader": userID},
		Expiry:        s.presignTTL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to sign upload")
	}

	return &UploadTicket{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(s.presignTTL),
	}, nil
}

// Promote moves a temporary image to its permanent key and returns the
// public URL. The sequence is copy first, then delete: a failed existence
// check aborts before any mutation, a failed copy leaves the temporary
// object in place for retry, and a failed delete is logged but tolerated
// since the sweep will collect the leftover.
func (s *ImageService) Promote(ctx context.Context, tempKey string) (string, error) {
	if !strings.HasPrefix(tempKey, s.tempPrefix) {
		return "", errors.Validationf("image key %q is not in the temporary namespace", tempKey)
	}

	if _, err := s.objects.Head(ctx, tempKey); err != nil {
		if errors.Is(err, objstore.ErrObjectNotFound) {
			return "", errors.ImageNotFound("temporary image not found or expired")
		}
		return "", errors.Wrap(err, errors.CodeInternal, "failed to check temporary image")
	}

	permKey := strings.TrimPrefix(tempKey, s.tempPrefix)
	if err := s.objects.Copy(ctx, tempKey, permKey); err != nil {
		return "", errors.Wrap(err, errors.CodeImagePromotion, "failed to promote image")
	}

	if err := s.objects.Delete(ctx, tempKey); err != nil {
		s.logger.Warn("failed to delete temporary image after promotion",
			"key", tempKey, "error", err)
	}

	return s.objects.PublicURL(permKey), nil
}

// SweepTemp removes temporary objects older than the configured TTL and
// returns how many were deleted.
func (s *ImageService) SweepTemp(ctx context.Context) (int, error) {
	infos, err := s.objects.List(ctx, s.tempPrefix)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "failed to list temporary images")
	}

	cutoff := time.Now().Add(-s.tempTTL)
	deleted := 0
	for _, info := range infos {
		if info.ModTime.After(cutoff) {
			continue
		}
		if err := s.objects.Delete(ctx, info.Key); err != nil {
			s.logger.Warn("failed to sweep temporary image", "key", info.Key, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// TempTTL returns the configured temporary object lifetime.
func (s *ImageService) TempTTL() time.Duration {
	return s.tempTTL
}
