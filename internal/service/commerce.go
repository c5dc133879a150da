package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/errors"
	"github.com/ofertaapp/oferta-server/internal/store"
	"github.com/ofertaapp/oferta-server/internal/validation"
)

// CreateCommerceInput is the payload for registering a commerce.
type CreateCommerceInput struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Address string `json:"address" validate:"max=255"`
}

// CommerceService manages the directory of commerces offers can reference.
type CommerceService struct {
	store    store.Store
	validate *validation.Validator
}

// NewCommerceService creates a commerce service.
func NewCommerceService(st store.Store, validate *validation.Validator) *CommerceService {
	return &CommerceService{store: st, validate: validate}
}

// Create registers a commerce.
func (s *CommerceService) Create(ctx context.Context, in CreateCommerceInput) (*domain.Commerce, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	commerce := &domain.Commerce{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: nowUTC(),
	}

	if err := s.store.CreateCommerce(ctx, commerce); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create commerce")
	}
	return commerce, nil
}

// Get returns a single commerce.
func (s *CommerceService) Get(ctx context.Context, commerceID string) (*domain.Commerce, error) {
	commerce, err := s.store.GetCommerce(ctx, commerceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("commerce not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "storage failure")
	}
	return commerce, nil
}

// List returns all commerces ordered by name.
func (s *CommerceService) List(ctx context.Context) ([]*domain.Commerce, error) {
	commerces, err := s.store.ListCommerces(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list commerces")
	}
	return commerces, nil
}

// nowUTC returns the current time in UTC, the timezone all entities are
// stamped in.
func nowUTC() time.Time {
	return time.Now().UTC()
}
