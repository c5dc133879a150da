package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/id"
	"github.com/ofertaapp/oferta-server/internal/store"
)

func TestCreateOffer_DuplicateCanonicalKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@example.com")
	cat := seedCategory(t, s, "groceries")
	product := seedProduct(t, s, "milk", cat.ID)
	commerce := seedCommerce(t, s, "corner-shop")

	publishedAt := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	seedOffer(t, s, product.ID, commerce.ID, user.ID, 1050, publishedAt)

	dup := &domain.Offer{
		ID:          id.MustGenerate(id.PrefixOffer),
		ProductID:   product.ID,
		CommerceID:  commerce.ID,
		Price:       1050,
		ImageURL:    "http://localhost/images/other.jpg",
		AuthorID:    user.ID,
		PublishedAt: publishedAt.Add(2 * time.Hour),
		CreatedAt:   publishedAt.Add(2 * time.Hour),
	}
	err := s.CreateOffer(ctx, dup)
	assert.ErrorIs(t, err, store.ErrDuplicateOffer)

	// A different price on the same day is a distinct offer.
	dup.ID = id.MustGenerate(id.PrefixOffer)
	dup.Price = 1051
	assert.NoError(t, s.CreateOffer(ctx, dup))
}

func TestCreateOffer_SamePriceDifferentDay(t *testing.T) {
	s := newTestStore(t)

	user := seedUser(t, s, "a@example.com")
	cat := seedCategory(t, s, "groceries")
	product := seedProduct(t, s, "milk", cat.ID)
	commerce := seedCommerce(t, s, "corner-shop")

	day1 := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	seedOffer(t, s, product.ID, commerce.ID, user.ID, 1050, day1)
	seedOffer(t, s, product.ID, commerce.ID, user.ID, 1050, day2)
}

func TestFindOfferSince(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@example.com")
	cat := seedCategory(t, s, "groceries")
	product := seedProduct(t, s, "milk", cat.ID)
	commerce := seedCommerce(t, s, "corner-shop")

	published := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	offer := seedOffer(t, s, product.ID, commerce.ID, user.ID, 1000, published)

	found, err := s.FindOfferSince(ctx, product.ID, commerce.ID, 1000, published.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, offer.ID, found.ID)
	assert.Equal(t, domain.Price(1000), found.Price)

	// Price matching is exact: one centavo apart is no match.
	_, err = s.FindOfferSince(ctx, product.ID, commerce.ID, 1001, published.Add(-time.Hour))
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Offers published before the window are not found.
	_, err = s.FindOfferSince(ctx, product.ID, commerce.ID, 1000, published.Add(time.Minute))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindOfferSince_SubsecondBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@example.com")
	cat := seedCategory(t, s, "groceries")
	product := seedProduct(t, s, "milk", cat.ID)
	commerce := seedCommerce(t, s, "corner-shop")

	// Half a second past midnight must still compare as after midnight.
	published := time.Date(2026, 6, 10, 0, 0, 0, 500_000_000, time.UTC)
	seedOffer(t, s, product.ID, commerce.ID, user.ID, 1000, published)

	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.FindOfferSince(ctx, product.ID, commerce.ID, 1000, midnight)
	assert.NoError(t, err)
}

func TestDeleteOffer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@example.com")
	cat := seedCategory(t, s, "groceries")
	product := seedProduct(t, s, "milk", cat.ID)
	commerce := seedCommerce(t, s, "corner-shop")

	offer := seedOffer(t, s, product.ID, commerce.ID, user.ID, 1000, time.Now())

	collab := &domain.Collaboration{
		ID:        id.MustGenerate(id.PrefixCollaboration),
		OfferID:   offer.ID,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateCollaboration(ctx, collab))

	require.NoError(t, s.DeleteOffer(ctx, offer.ID))
	assert.ErrorIs(t, s.DeleteOffer(ctx, offer.ID), store.ErrNotFound)

	// Collaborations cascade with the offer.
	count, err := s.CountCollaborations(ctx, offer.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDailyBestOffers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@example.com")
	cat := seedCategory(t, s, "groceries")
	milk := seedProduct(t, s, "milk", cat.ID)
	bread := seedProduct(t, s, "bread", cat.ID)
	shopA := seedCommerce(t, s, "shop-a")
	shopB := seedCommerce(t, s, "shop-b")

	base := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)

	// milk: 50 early, then two 30s. The later 30 wins the tie.
	seedOffer(t, s, milk.ID, shopA.ID, user.ID, 5000, base)
	seedOffer(t, s, milk.ID, shopA.ID, user.ID, 3000, base.Add(time.Hour))
	winner := seedOffer(t, s, milk.ID, shopB.ID, user.ID, 3000, base.Add(2*time.Hour))

	// bread: one offer, with a collaborator.
	breadOffer := seedOffer(t, s, bread.ID, shopA.ID, user.ID, 2000, base.Add(time.Hour))
	require.NoError(t, s.CreateCollaboration(ctx, &domain.Collaboration{
		ID:        id.MustGenerate(id.PrefixCollaboration),
		OfferID:   breadOffer.ID,
		UserID:    user.ID,
		CreatedAt: base.Add(2 * time.Hour),
	}))

	// An offer published before the window is excluded.
	seedOffer(t, s, bread.ID, shopB.ID, user.ID, 100, base.Add(-48*time.Hour))

	ranked, err := s.DailyBestOffers(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	// Cheapest product first.
	assert.Equal(t, breadOffer.ID, ranked[0].ID)
	assert.Equal(t, 1, ranked[0].Collaborations)

	assert.Equal(t, winner.ID, ranked[1].ID)
	assert.Equal(t, domain.Price(3000), ranked[1].Price)
	assert.Equal(t, 0, ranked[1].Collaborations)
}

func TestListOffers_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@example.com")
	cat := seedCategory(t, s, "groceries")
	product := seedProduct(t, s, "milk", cat.ID)
	commerce := seedCommerce(t, s, "corner-shop")

	base := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	old := seedOffer(t, s, product.ID, commerce.ID, user.ID, 1000, base)
	recent := seedOffer(t, s, product.ID, commerce.ID, user.ID, 2000, base.Add(time.Hour))

	offers, err := s.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, recent.ID, offers[0].ID)
	assert.Equal(t, old.ID, offers[1].ID)

	count, err := s.CountOffers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	byProduct, err := s.ListOffersByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	byAuthor, err := s.ListOffersByAuthor(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)
}
