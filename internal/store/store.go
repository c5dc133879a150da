// Package store defines the relational persistence contract for the Oferta
// server. The concrete implementation lives in store/sqlite.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ofertaapp/oferta-server/internal/domain"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound signals the requested entity does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists signals a unique field collision (e.g. product name,
	// user email).
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrDuplicateOffer signals the canonical-offer uniqueness index
	// rejected a create: an identical (product, commerce, price, day)
	// offer already exists. Callers use this as the trigger to fall back
	// to the collaboration path.
	ErrDuplicateOffer = errors.New("store: duplicate offer for day")
)

// Store is the relational store collaborator.
type Store interface {
	OfferStore
	CollaborationStore
	ProductStore
	CommerceStore
	UserStore

	Close() error
}

// OfferStore persists offers.
type OfferStore interface {
	// CreateOffer inserts a new offer. Returns ErrDuplicateOffer when an
	// offer with the same product, commerce, price and day already exists.
	CreateOffer(ctx context.Context, o *domain.Offer) error

	// GetOffer returns an offer by ID, or ErrNotFound.
	GetOffer(ctx context.Context, id string) (*domain.Offer, error)

	// FindOfferSince returns the matching offer published at or after the
	// given instant, or ErrNotFound. Price matching is exact.
	FindOfferSince(ctx context.Context, productID, commerceID string, price domain.Price, since time.Time) (*domain.Offer, error)

	// ListOffers returns all offers, most recent first.
	ListOffers(ctx context.Context) ([]*domain.Offer, error)

	// ListOffersByProduct returns a product's offers, most recent first.
	ListOffersByProduct(ctx context.Context, productID string) ([]*domain.Offer, error)

	// ListOffersByAuthor returns a user's own offers, most recent first.
	ListOffersByAuthor(ctx context.Context, authorID string) ([]*domain.Offer, error)

	// CountOffers returns the total number of offers.
	CountOffers(ctx context.Context) (int64, error)

	// DeleteOffer removes an offer, or returns ErrNotFound.
	DeleteOffer(ctx context.Context, id string) error

	// DailyBestOffers returns offers published at or after since, one per
	// product: the cheapest, ties broken by most recent publish time.
	// Each entry carries its collaboration count.
	DailyBestOffers(ctx context.Context, since time.Time) ([]*domain.RankedOffer, error)
}

// CollaborationStore persists offer collaborations.
type CollaborationStore interface {
	CreateCollaboration(ctx context.Context, c *domain.Collaboration) error
	CountCollaborations(ctx context.Context, offerID string) (int, error)
	ListCollaborations(ctx context.Context, offerID string) ([]*domain.Collaboration, error)
}

// ProductStore persists products and their categories.
type ProductStore interface {
	// CreateProduct inserts a product. Returns ErrAlreadyExists when the
	// name is taken.
	CreateProduct(ctx context.Context, p *domain.Product) error

	// UpdateProduct performs a full row update, or returns ErrNotFound.
	UpdateProduct(ctx context.Context, p *domain.Product) error

	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)

	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

// CommerceStore persists commerces.
type CommerceStore interface {
	CreateCommerce(ctx context.Context, c *domain.Commerce) error
	GetCommerce(ctx context.Context, id string) (*domain.Commerce, error)
	ListCommerces(ctx context.Context) ([]*domain.Commerce, error)
}

// UserStore persists users.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrAlreadyExists when the email
	// is taken.
	CreateUser(ctx context.Context, u *domain.User) error

	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
