package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/store"
)

const commerceColumns = `id, name, address, created_at`

func scanCommerce(scanner interface{ Scan(...any) error }) (*domain.Commerce, error) {
	var (
		c         domain.Commerce
		address   sql.NullString
		createdAt string
	)
	err := scanner.Scan(&c.ID, &c.Name, &address, &createdAt)
	if err != nil {
		return nil, err
	}

	c.Address = address.String
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &c, nil
}

// CreateCommerce inserts a commerce.
func (s *Store) CreateCommerce(ctx context.Context, c *domain.Commerce) error {
	query := `INSERT INTO commerces (` + commerceColumns + `) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, nullString(c.Address), formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert commerce: %w", err)
	}
	return nil
}

// GetCommerce returns a commerce by ID.
func (s *Store) GetCommerce(ctx context.Context, id string) (*domain.Commerce, error) {
	query := `SELECT ` + commerceColumns + ` FROM commerces WHERE id = ?`

	c, err := scanCommerce(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get commerce: %w", err)
	}
	return c, nil
}

// ListCommerces returns all commerces ordered by name.
func (s *Store) ListCommerces(ctx context.Context) ([]*domain.Commerce, error) {
	query := `SELECT ` + commerceColumns + ` FROM commerces ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query commerces: %w", err)
	}
	defer rows.Close()

	var commerces []*domain.Commerce
	for rows.Next() {
		c, err := scanCommerce(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commerce: %w", err)
		}
		commerces = append(commerces, c)
	}
	return commerces, rows.Err()
}
