package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/service"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createProduct",
		Method:      http.MethodPost,
		Path:        "/api/v1/products",
		Summary:     "Create product",
		Description: "Adds a product to the catalog. Product names are unique.",
		Tags:        []string{"Products"},
	}, s.handleCreateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProduct",
		Method:      http.MethodPut,
		Path:        "/api/v1/products/{id}",
		Summary:     "Update product",
		Tags:        []string{"Products"},
	}, s.handleUpdateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "listProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Tags:        []string{"Products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories",
		Summary:     "Create category",
		Tags:        []string{"Products"},
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Tags:        []string{"Products"},
	}, s.handleListCategories)
}

// === DTOs ===

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name       string `json:"name" doc:"Product name, unique in the catalog"`
	CategoryID string `json:"category_id" doc:"Category the product belongs to"`
}

// ProductResponse is a product in API responses.
type ProductResponse struct {
	ID         string    `json:"id" doc:"Product ID"`
	Name       string    `json:"name" doc:"Product name"`
	CategoryID string    `json:"category_id" doc:"Category ID"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

// CreateProductInput wraps a product create request for Huma.
type CreateProductInput struct {
	Authorization string `header:"Authorization"`
	Body          ProductRequest
}

// UpdateProductInput wraps a product update request for Huma.
type UpdateProductInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Product ID"`
	Body          ProductRequest
}

// ProductOutput wraps a single product for Huma.
type ProductOutput struct {
	Body ProductResponse
}

// ProductsOutput wraps a product list for Huma.
type ProductsOutput struct {
	Body []ProductResponse
}

// CategoryRequest is the payload for creating a category.
type CategoryRequest struct {
	Name string `json:"name" doc:"Category name, unique"`
}

// CategoryResponse is a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id" doc:"Category ID"`
	Name      string    `json:"name" doc:"Category name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// CreateCategoryInput wraps a category create request for Huma.
type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	Body          CategoryRequest
}

// CategoryOutput wraps a single category for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// CategoriesOutput wraps a category list for Huma.
type CategoriesOutput struct {
	Body []CategoryResponse
}

// === Handlers ===

func (s *Server) handleCreateProduct(ctx context.Context, input *CreateProductInput) (*ProductOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	product, err := s.services.Products.Create(ctx, service.CreateProductInput{
		Name:       input.Body.Name,
		CategoryID: input.Body.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: productResponse(product)}, nil
}

func (s *Server) handleUpdateProduct(ctx context.Context, input *UpdateProductInput) (*ProductOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	product, err := s.services.Products.Update(ctx, input.ID, service.UpdateProductInput{
		Name:       input.Body.Name,
		CategoryID: input.Body.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: productResponse(product)}, nil
}

func (s *Server) handleListProducts(ctx context.Context, _ *struct{}) (*ProductsOutput, error) {
	products, err := s.services.Products.List(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		body = append(body, productResponse(p))
	}
	return &ProductsOutput{Body: body}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	category, err := s.services.Products.CreateCategory(ctx, service.CreateCategoryInput{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: categoryResponse(category)}, nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*CategoriesOutput, error) {
	categories, err := s.services.Products.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		body = append(body, categoryResponse(c))
	}
	return &CategoriesOutput{Body: body}, nil
}

func productResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func categoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
