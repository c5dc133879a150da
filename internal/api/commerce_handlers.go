package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/service"
)

func (s *Server) registerCommerceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createCommerce",
		Method:      http.MethodPost,
		Path:        "/api/v1/commerces",
		Summary:     "Create commerce",
		Description: "Registers a commerce offers can reference.",
		Tags:        []string{"Commerces"},
	}, s.handleCreateCommerce)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCommerces",
		Method:      http.MethodGet,
		Path:        "/api/v1/commerces",
		Summary:     "List commerces",
		Tags:        []string{"Commerces"},
	}, s.handleListCommerces)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCommerce",
		Method:      http.MethodGet,
		Path:        "/api/v1/commerces/{id}",
		Summary:     "Get commerce",
		Tags:        []string{"Commerces"},
	}, s.handleGetCommerce)
}

// === DTOs ===

// CommerceRequest is the payload for registering a commerce.
type CommerceRequest struct {
	Name    string `json:"name" doc:"Commerce name"`
	Address string `json:"address,omitempty" doc:"Street address"`
}

// CommerceResponse is a commerce in API responses.
type CommerceResponse struct {
	ID        string    `json:"id" doc:"Commerce ID"`
	Name      string    `json:"name" doc:"Commerce name"`
	Address   string    `json:"address,omitempty" doc:"Street address"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// CreateCommerceInput wraps a commerce create request for Huma.
type CreateCommerceInput struct {
	Authorization string `header:"Authorization"`
	Body          CommerceRequest
}

// CommercePathInput identifies a commerce by path parameter.
type CommercePathInput struct {
	ID string `path:"id" doc:"Commerce ID"`
}

// CommerceOutput wraps a single commerce for Huma.
type CommerceOutput struct {
	Body CommerceResponse
}

// CommercesOutput wraps a commerce list for Huma.
type CommercesOutput struct {
	Body []CommerceResponse
}

// === Handlers ===

func (s *Server) handleCreateCommerce(ctx context.Context, input *CreateCommerceInput) (*CommerceOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	commerce, err := s.services.Commerces.Create(ctx, service.CreateCommerceInput{
		Name:    input.Body.Name,
		Address: input.Body.Address,
	})
	if err != nil {
		return nil, err
	}
	return &CommerceOutput{Body: commerceResponse(commerce)}, nil
}

func (s *Server) handleListCommerces(ctx context.Context, _ *struct{}) (*CommercesOutput, error) {
	commerces, err := s.services.Commerces.List(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]CommerceResponse, 0, len(commerces))
	for _, c := range commerces {
		body = append(body, commerceResponse(c))
	}
	return &CommercesOutput{Body: body}, nil
}

func (s *Server) handleGetCommerce(ctx context.Context, input *CommercePathInput) (*CommerceOutput, error) {
	commerce, err := s.services.Commerces.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CommerceOutput{Body: commerceResponse(commerce)}, nil
}

func commerceResponse(c *domain.Commerce) CommerceResponse {
	return CommerceResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}
