package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/store"
)

const productColumns = `id, name, category_id, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*domain.Product, error) {
	var (
		p                    domain.Product
		createdAt, updatedAt string
	)
	err := scanner.Scan(&p.ID, &p.Name, &p.CategoryID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}

// CreateProduct inserts a product. Product names are globally unique.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.CategoryID, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err, "products.name") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct performs a full row update.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name = ?, category_id = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		p.Name, p.CategoryID, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		if isUniqueViolation(err, "products.name") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetProduct returns a product by ID.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListProducts returns all products ordered by name.
func (s *Store) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateCategory inserts a category. Category names are unique.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, formatTime(c.CreatedAt))
	if err != nil {
		if isUniqueViolation(err, "categories.name") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetCategory returns a category by ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT id, name, created_at FROM categories WHERE id = ?`

	var (
		c         domain.Category
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT id, name, created_at FROM categories ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var (
			c         domain.Category
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
