package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/errors"
	"github.com/ofertaapp/oferta-server/internal/id"
	"github.com/ofertaapp/oferta-server/internal/store"
	"github.com/ofertaapp/oferta-server/internal/validation"
)

// CreateProductInput is the payload for creating a product.
type CreateProductInput struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	CategoryID string `json:"category_id" validate:"required"`
}

// UpdateProductInput is the payload for updating a product.
type UpdateProductInput struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	CategoryID string `json:"category_id" validate:"required"`
}

// CreateCategoryInput is the payload for creating a category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=80"`
}

// ProductService manages the product and category catalog.
type ProductService struct {
	store    store.Store
	validate *validation.Validator
}

// NewProductService creates a product service.
func NewProductService(st store.Store, validate *validation.Validator) *ProductService {
	return &ProductService{store: st, validate: validate}
}

// Create adds a product to the catalog. Product names are unique.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	if _, err := s.store.GetCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("category not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "storage failure")
	}

	now := nowUTC()
	product := &domain.Product{
		ID:         uuid.NewString(),
		Name:       in.Name,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExists("a product with this name already exists")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create product")
	}
	return product, nil
}

// Update renames or recategorizes a product.
func (s *ProductService) Update(ctx context.Context, productID string, in UpdateProductInput) (*domain.Product, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("product not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "storage failure")
	}

	if _, err := s.store.GetCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("category not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "storage failure")
	}

	product.Name = in.Name
	product.CategoryID = in.CategoryID
	product.UpdatedAt = nowUTC()

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, errors.AlreadyExists("a product with this name already exists")
		case errors.Is(err, store.ErrNotFound):
			return nil, errors.NotFound("product not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to update product")
	}
	return product, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("product not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "storage failure")
	}
	return product, nil
}

// List returns the full catalog ordered by name.
func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list products")
	}
	return products, nil
}

// CreateCategory adds a category. Category names are unique.
func (s *ProductService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:        id.MustGenerate(id.PrefixCategory),
		Name:      in.Name,
		CreatedAt: nowUTC(),
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExists("a category with this name already exists")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create category")
	}
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *ProductService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list categories")
	}
	return categories, nil
}
