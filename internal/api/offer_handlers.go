package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/service"
)

func (s *Server) registerOfferRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "publishOffer",
		Method:      http.MethodPost,
		Path:        "/api/v1/offers/publish",
		Summary:     "Publish an offer",
		Description: "Records a price sighting. An equivalent offer already published today by the caller is a no-op; one published by someone else attaches the caller as a collaborator; otherwise the temporary image is promoted and a new offer is created.",
		Tags:        []string{"Offers"},
	}, s.handlePublishOffer)

	huma.Register(s.api, huma.Operation{
		OperationID: "createOffer",
		Method:      http.MethodPost,
		Path:        "/api/v1/offers",
		Summary:     "Create an offer",
		Description: "Creates an offer directly. An equivalent offer in the current day window is a conflict.",
		Tags:        []string{"Offers"},
	}, s.handleCreateOffer)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOffers",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers",
		Summary:     "List offers",
		Description: "Returns all offers, most recent first.",
		Tags:        []string{"Offers"},
	}, s.handleListOffers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOfferCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers/count",
		Summary:     "Count offers",
		Tags:        []string{"Offers"},
	}, s.handleGetOfferCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDailyBestOffers",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers/daily-best",
		Summary:     "Daily best offers",
		Description: "Returns today's feed: the cheapest offer per product published in the current day, cheapest first, with collaboration counts.",
		Tags:        []string{"Offers"},
	}, s.handleGetDailyBestOffers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOwnOffers",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers/mine",
		Summary:     "List own offers",
		Description: "Returns the offers published by the authenticated user.",
		Tags:        []string{"Offers"},
	}, s.handleListOwnOffers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOffer",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers/{id}",
		Summary:     "Get offer",
		Tags:        []string{"Offers"},
	}, s.handleGetOffer)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteOwnOffer",
		Method:      http.MethodDelete,
		Path:        "/api/v1/offers/{id}",
		Summary:     "Delete own offer",
		Description: "Deletes an offer. Only the author may delete it.",
		Tags:        []string{"Offers"},
	}, s.handleDeleteOwnOffer)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOffersByProduct",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/offers",
		Summary:     "List offers for a product",
		Tags:        []string{"Offers"},
	}, s.handleGetOffersByProduct)
}

// === DTOs ===

// OfferRequest is the payload for publishing or creating an offer.
type OfferRequest struct {
	ProductID    string `json:"product_id" doc:"UUID of the product"`
	CommerceID   string `json:"commerce_id" doc:"UUID of the commerce"`
	Price        string `json:"price" doc:"Decimal price, at most two fractional digits"`
	TempImageKey string `json:"temp_image_key" doc:"Key returned by the signed upload flow"`
}

// OfferResponse is an offer in API responses.
type OfferResponse struct {
	ID          string    `json:"id" doc:"Offer ID"`
	ProductID   string    `json:"product_id" doc:"Product ID"`
	CommerceID  string    `json:"commerce_id" doc:"Commerce ID"`
	Price       string    `json:"price" doc:"Decimal price"`
	ImageURL    string    `json:"image_url" doc:"Public URL of the offer image"`
	AuthorID    string    `json:"author_id" doc:"Publishing user ID"`
	PublishedAt time.Time `json:"published_at" doc:"Publish time"`
}

// RankedOfferResponse is a feed entry with its collaboration count.
type RankedOfferResponse struct {
	OfferResponse
	Collaborations int `json:"collaborations" doc:"Number of users who co-reported this offer"`
}

// PublishOfferInput wraps a publish request for Huma.
type PublishOfferInput struct {
	Authorization string `header:"Authorization"`
	Body          OfferRequest
}

// PublishOfferResponse reports how the publish request was resolved.
type PublishOfferResponse struct {
	Outcome string        `json:"outcome" doc:"created, duplicate, or collaborated"`
	Offer   OfferResponse `json:"offer" doc:"The canonical offer for this sighting"`
}

// PublishOfferOutput wraps the publish response for Huma.
type PublishOfferOutput struct {
	Body PublishOfferResponse
}

// OfferOutput wraps a single offer for Huma.
type OfferOutput struct {
	Body OfferResponse
}

// OffersOutput wraps an offer list for Huma.
type OffersOutput struct {
	Body []OfferResponse
}

// RankedOffersOutput wraps the daily feed for Huma.
type RankedOffersOutput struct {
	Body []RankedOfferResponse
}

// OfferCountOutput wraps the offer count for Huma.
type OfferCountOutput struct {
	Body struct {
		Count int64 `json:"count" doc:"Total number of offers"`
	}
}

// OfferIDInput identifies an offer by path parameter, with auth.
type OfferIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Offer ID"`
}

// OfferPathInput identifies an offer by path parameter.
type OfferPathInput struct {
	ID string `path:"id" doc:"Offer ID"`
}

// ProductOffersInput identifies a product whose offers to list.
type ProductOffersInput struct {
	ID string `path:"id" doc:"Product ID"`
}

// === Handlers ===

func (s *Server) handlePublishOffer(ctx context.Context, input *PublishOfferInput) (*PublishOfferOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Offers.Publish(ctx, user.ID, service.PublishOfferInput{
		ProductID:    input.Body.ProductID,
		CommerceID:   input.Body.CommerceID,
		Price:        input.Body.Price,
		TempImageKey: input.Body.TempImageKey,
	})
	if err != nil {
		return nil, err
	}

	return &PublishOfferOutput{Body: PublishOfferResponse{
		Outcome: string(result.Outcome),
		Offer:   offerResponse(result.Offer),
	}}, nil
}

func (s *Server) handleCreateOffer(ctx context.Context, input *PublishOfferInput) (*OfferOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	offer, err := s.services.Offers.Create(ctx, user.ID, service.PublishOfferInput{
		ProductID:    input.Body.ProductID,
		CommerceID:   input.Body.CommerceID,
		Price:        input.Body.Price,
		TempImageKey: input.Body.TempImageKey,
	})
	if err != nil {
		return nil, err
	}

	return &OfferOutput{Body: offerResponse(offer)}, nil
}

func (s *Server) handleListOffers(ctx context.Context, _ *struct{}) (*OffersOutput, error) {
	offers, err := s.services.Offers.List(ctx)
	if err != nil {
		return nil, err
	}
	return &OffersOutput{Body: offerResponses(offers)}, nil
}

func (s *Server) handleGetOfferCount(ctx context.Context, _ *struct{}) (*OfferCountOutput, error) {
	count, err := s.services.Offers.Count(ctx)
	if err != nil {
		return nil, err
	}

	out := &OfferCountOutput{}
	out.Body.Count = count
	return out, nil
}

func (s *Server) handleGetDailyBestOffers(ctx context.Context, _ *struct{}) (*RankedOffersOutput, error) {
	ranked, err := s.services.Offers.DailyBest(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]RankedOfferResponse, 0, len(ranked))
	for _, r := range ranked {
		body = append(body, RankedOfferResponse{
			OfferResponse:  offerResponse(&r.Offer),
			Collaborations: r.Collaborations,
		})
	}
	return &RankedOffersOutput{Body: body}, nil
}

func (s *Server) handleListOwnOffers(ctx context.Context, input *CurrentUserInput) (*OffersOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	offers, err := s.services.Offers.ListByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &OffersOutput{Body: offerResponses(offers)}, nil
}

func (s *Server) handleGetOffer(ctx context.Context, input *OfferPathInput) (*OfferOutput, error) {
	offer, err := s.services.Offers.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &OfferOutput{Body: offerResponse(offer)}, nil
}

func (s *Server) handleDeleteOwnOffer(ctx context.Context, input *OfferIDInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Offers.Delete(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "offer deleted"}}, nil
}

func (s *Server) handleGetOffersByProduct(ctx context.Context, input *ProductOffersInput) (*OffersOutput, error) {
	offers, err := s.services.Offers.ListByProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &OffersOutput{Body: offerResponses(offers)}, nil
}

func offerResponse(o *domain.Offer) OfferResponse {
	return OfferResponse{
		ID:          o.ID,
		ProductID:   o.ProductID,
		CommerceID:  o.CommerceID,
		Price:       o.Price.String(),
		ImageURL:    o.ImageURL,
		AuthorID:    o.AuthorID,
		PublishedAt: o.PublishedAt,
	}
}

func offerResponses(offers []*domain.Offer) []OfferResponse {
	body := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		body = append(body, offerResponse(o))
	}
	return body
}
