package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/id"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, email string) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:           id.MustGenerate(id.PrefixUser),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedCategory(t *testing.T, s *Store, name string) *domain.Category {
	t.Helper()

	c := &domain.Category{
		ID:        id.MustGenerate(id.PrefixCategory),
		Name:      name,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateCategory(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, s *Store, name, categoryID string) *domain.Product {
	t.Helper()

	now := time.Now()
	p := &domain.Product{
		ID:         "prod-" + name,
		Name:       name,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func seedCommerce(t *testing.T, s *Store, name string) *domain.Commerce {
	t.Helper()

	c := &domain.Commerce{
		ID:        "comm-" + name,
		Name:      name,
		Address:   "123 Main St",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateCommerce(context.Background(), c))
	return c
}

func seedOffer(t *testing.T, s *Store, productID, commerceID, authorID string, price domain.Price, publishedAt time.Time) *domain.Offer {
	t.Helper()

	o := &domain.Offer{
		ID:          id.MustGenerate(id.PrefixOffer),
		ProductID:   productID,
		CommerceID:  commerceID,
		Price:       price,
		ImageURL:    "http://localhost/images/img.jpg",
		AuthorID:    authorID,
		PublishedAt: publishedAt,
		CreatedAt:   publishedAt,
	}
	require.NoError(t, s.CreateOffer(context.Background(), o))
	return o
}
