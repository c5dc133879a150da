package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/store"
)

const offerColumns = `id, product_id, commerce_id, price, image_url, author_id, published_at, published_day, created_at`

// scanOffer scans a full offer row.
func scanOffer(scanner interface{ Scan(...any) error }) (*domain.Offer, error) {
	var (
		o                      domain.Offer
		price                  int64
		publishedAt, createdAt string
		publishedDay           string
	)
	err := scanner.Scan(
		&o.ID, &o.ProductID, &o.CommerceID, &price, &o.ImageURL,
		&o.AuthorID, &publishedAt, &publishedDay, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	o.Price = domain.Price(price)
	if o.PublishedAt, err = parseTime(publishedAt); err != nil {
		return nil, fmt.Errorf("parse published_at: %w", err)
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &o, nil
}

// CreateOffer inserts a new offer. A canonical-index collision maps to
// store.ErrDuplicateOffer so callers can fall back to a collaboration.
func (s *Store) CreateOffer(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (` + offerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		o.ID, o.ProductID, o.CommerceID, int64(o.Price), o.ImageURL,
		o.AuthorID, formatTime(o.PublishedAt), domain.DayKey(o.PublishedAt),
		formatTime(o.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "idx_offers_canonical") || isUniqueViolation(err, "offers.product_id") {
			return store.ErrDuplicateOffer
		}
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// GetOffer returns an offer by ID.
func (s *Store) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = ?`

	o, err := scanOffer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

// FindOfferSince returns the matching offer published at or after since.
// Price matching is exact integer equality.
func (s *Store) FindOfferSince(ctx context.Context, productID, commerceID string, price domain.Price, since time.Time) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers
		WHERE product_id = ? AND commerce_id = ? AND price = ? AND published_at >= ?
		ORDER BY published_at DESC
		LIMIT 1`

	o, err := scanOffer(s.db.QueryRowContext(ctx, query, productID, commerceID, int64(price), formatTime(since)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return o, nil
}

// ListOffers returns all offers, most recent first.
func (s *Store) ListOffers(ctx context.Context) ([]*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY published_at DESC`
	return s.queryOffers(ctx, query)
}

// ListOffersByProduct returns a product's offers, most recent first.
func (s *Store) ListOffersByProduct(ctx context.Context, productID string) ([]*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE product_id = ? ORDER BY published_at DESC`
	return s.queryOffers(ctx, query, productID)
}

// ListOffersByAuthor returns a user's own offers, most recent first.
func (s *Store) ListOffersByAuthor(ctx context.Context, authorID string) ([]*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE author_id = ? ORDER BY published_at DESC`
	return s.queryOffers(ctx, query, authorID)
}

func (s *Store) queryOffers(ctx context.Context, query string, args ...any) ([]*domain.Offer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	var offers []*domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// CountOffers returns the total number of offers.
func (s *Store) CountOffers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return count, nil
}

// DeleteOffer removes an offer. Collaborations cascade.
func (s *Store) DeleteOffer(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM offers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DailyBestOffers returns offers published at or after since, one per
// product: the cheapest, ties broken by most recent publish time. The
// result is ordered cheapest first, then most recent.
func (s *Store) DailyBestOffers(ctx context.Context, since time.Time) ([]*domain.RankedOffer, error) {
	query := `SELECT id, product_id, commerce_id, price, image_url, author_id, published_at, published_day, created_at, collaborations FROM (
			SELECT o.*,
				(SELECT COUNT(*) FROM collaborations c WHERE c.offer_id = o.id) AS collaborations,
				ROW_NUMBER() OVER (
					PARTITION BY o.product_id
					ORDER BY o.price ASC, o.published_at DESC
				) AS rn
			FROM offers o
			WHERE o.published_at >= ?
		)
		WHERE rn = 1
		ORDER BY price ASC, published_at DESC`

	rows, err := s.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("query daily best offers: %w", err)
	}
	defer rows.Close()

	var ranked []*domain.RankedOffer
	for rows.Next() {
		var (
			r                      domain.RankedOffer
			price                  int64
			publishedAt, createdAt string
			publishedDay           string
		)
		err := rows.Scan(
			&r.ID, &r.ProductID, &r.CommerceID, &price, &r.ImageURL,
			&r.AuthorID, &publishedAt, &publishedDay, &createdAt,
			&r.Collaborations,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ranked offer: %w", err)
		}

		r.Price = domain.Price(price)
		if r.PublishedAt, err = parseTime(publishedAt); err != nil {
			return nil, fmt.Errorf("parse published_at: %w", err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		ranked = append(ranked, &r)
	}
	return ranked, rows.Err()
}
