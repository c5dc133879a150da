package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/errors"
	"github.com/ofertaapp/oferta-server/internal/id"
	"github.com/ofertaapp/oferta-server/internal/store"
	"github.com/ofertaapp/oferta-server/internal/validation"
)

// PublishOfferInput is the payload for publishing an offer. The price is a
// decimal string so that amounts survive transport without float rounding.
type PublishOfferInput struct {
	ProductID    string `json:"product_id" validate:"required,uuid4"`
	CommerceID   string `json:"commerce_id" validate:"required,uuid4"`
	Price        string `json:"price" validate:"required"`
	TempImageKey string `json:"temp_image_key" validate:"required"`
}

// PublishOutcome describes how a publish request was resolved.
type PublishOutcome string

// Publish outcomes.
const (
	// OutcomeCreated means a new offer was created.
	OutcomeCreated PublishOutcome = "created"
	// OutcomeDuplicate means the author already published this offer today;
	// nothing changed.
	OutcomeDuplicate PublishOutcome = "duplicate"
	// OutcomeCollaborated means an equivalent offer by someone else already
	// existed and the caller was attached as a collaborator.
	OutcomeCollaborated PublishOutcome = "collaborated"
)

// PublishResult is the resolution of a publish request.
type PublishResult struct {
	Outcome PublishOutcome `json:"outcome"`
	Offer   *domain.Offer  `json:"offer"`
}

// OfferService implements offer publication, the daily feed, and
// ownership-gated deletion.
type OfferService struct {
	store    store.Store
	images   *ImageService
	validate *validation.Validator
	logger   *slog.Logger

	// now is injectable for deterministic day-window tests.
	now func() time.Time
}

// NewOfferService creates an offer service.
func NewOfferService(st store.Store, images *ImageService, validate *validation.Validator, logger *slog.Logger, now func() time.Time) *OfferService {
	return &OfferService{
		store:    st,
		images:   images,
		validate: validate,
		logger:   logger.With("component", "offers"),
		now:      now,
	}
}

// Publish records a price sighting for the calling user.
//
// Within the current marketplace day, an equivalent offer (same product,
// commerce and exact price) is never duplicated: if the caller already
// published it the request is a no-op, and if someone else did the caller is
// attached as a collaborator instead. Only when no equivalent offer exists
// is the temporary image promoted and a new offer created. In the first two
// cases the temporary image is deliberately left behind for the sweep.
func (s *OfferService) Publish(ctx context.Context, authorID string, in PublishOfferInput) (*PublishResult, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	price, err := domain.ParsePrice(in.Price)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}
	if !price.Positive() {
		return nil, errors.Validation("price must be greater than zero")
	}

	if _, err := s.store.GetProduct(ctx, in.ProductID); err != nil {
		return nil, s.mapStoreErr(err, "product not found")
	}
	if _, err := s.store.GetCommerce(ctx, in.CommerceID); err != nil {
		return nil, s.mapStoreErr(err, "commerce not found")
	}

	now := s.now()
	dayStart := domain.StartOfDay(now)
	if dayStart.IsZero() {
		return nil, errors.Clock("could not determine the current day window")
	}

	existing, err := s.store.FindOfferSince(ctx, in.ProductID, in.CommerceID, price, dayStart)
	switch {
	case err == nil:
		return s.resolveDuplicate(ctx, authorID, existing, now)
	case errors.Is(err, store.ErrNotFound):
		// No equivalent offer today: fall through to create.
	default:
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to look up existing offers")
	}

	imageURL, err := s.images.Promote(ctx, in.TempImageKey)
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		ID:          id.MustGenerate(id.PrefixOffer),
		ProductID:   in.ProductID,
		CommerceID:  in.CommerceID,
		Price:       price,
		ImageURL:    imageURL,
		AuthorID:    authorID,
		PublishedAt: now,
		CreatedAt:   now,
	}

	if err := s.store.CreateOffer(ctx, offer); err != nil {
		if errors.Is(err, store.ErrDuplicateOffer) {
			// Lost a race: someone published the same offer between our
			// lookup and insert. Resolve against the winning row.
			winner, findErr := s.store.FindOfferSince(ctx, in.ProductID, in.CommerceID, price, dayStart)
			if findErr != nil {
				return nil, errors.Wrap(findErr, errors.CodeInternal, "failed to resolve duplicate offer")
			}
			return s.resolveDuplicate(ctx, authorID, winner, now)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create offer")
	}

	return &PublishResult{Outcome: OutcomeCreated, Offer: offer}, nil
}

// resolveDuplicate handles an equivalent offer already existing in the
// current day window.
func (s *OfferService) resolveDuplicate(ctx context.Context, authorID string, existing *domain.Offer, now time.Time) (*PublishResult, error) {
	if existing.AuthorID == authorID {
		return &PublishResult{Outcome: OutcomeDuplicate, Offer: existing}, nil
	}

	collab := &domain.Collaboration{
		ID:        id.MustGenerate(id.PrefixCollaboration),
		OfferID:   existing.ID,
		UserID:    authorID,
		CreatedAt: now,
	}
	if err := s.store.CreateCollaboration(ctx, collab); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to record collaboration")
	}

	return &PublishResult{Outcome: OutcomeCollaborated, Offer: existing}, nil
}

// Create inserts an offer directly, without the same-day dedup resolution.
// An equivalent offer already existing in the day window is a conflict.
func (s *OfferService) Create(ctx context.Context, authorID string, in PublishOfferInput) (*domain.Offer, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	price, err := domain.ParsePrice(in.Price)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}
	if !price.Positive() {
		return nil, errors.Validation("price must be greater than zero")
	}

	if _, err := s.store.GetProduct(ctx, in.ProductID); err != nil {
		return nil, s.mapStoreErr(err, "product not found")
	}
	if _, err := s.store.GetCommerce(ctx, in.CommerceID); err != nil {
		return nil, s.mapStoreErr(err, "commerce not found")
	}

	imageURL, err := s.images.Promote(ctx, in.TempImageKey)
	if err != nil {
		return nil, err
	}

	now := s.now()
	offer := &domain.Offer{
		ID:          id.MustGenerate(id.PrefixOffer),
		ProductID:   in.ProductID,
		CommerceID:  in.CommerceID,
		Price:       price,
		ImageURL:    imageURL,
		AuthorID:    authorID,
		PublishedAt: now,
		CreatedAt:   now,
	}

	if err := s.store.CreateOffer(ctx, offer); err != nil {
		if errors.Is(err, store.ErrDuplicateOffer) {
			return nil, errors.Conflict("an equivalent offer already exists today")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create offer")
	}
	return offer, nil
}

// Get returns a single offer.
func (s *OfferService) Get(ctx context.Context, offerID string) (*domain.Offer, error) {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, s.mapStoreErr(err, "offer not found")
	}
	return offer, nil
}

// List returns all offers, most recent first.
func (s *OfferService) List(ctx context.Context) ([]*domain.Offer, error) {
	offers, err := s.store.ListOffers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list offers")
	}
	return offers, nil
}

// ListByProduct returns a product's offers, most recent first.
func (s *OfferService) ListByProduct(ctx context.Context, productID string) ([]*domain.Offer, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, s.mapStoreErr(err, "product not found")
	}

	offers, err := s.store.ListOffersByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list offers")
	}
	return offers, nil
}

// ListByAuthor returns the offers a user published, most recent first.
func (s *OfferService) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Offer, error) {
	offers, err := s.store.ListOffersByAuthor(ctx, authorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list offers")
	}
	return offers, nil
}

// Count returns the total number of offers.
func (s *OfferService) Count(ctx context.Context) (int64, error) {
	count, err := s.store.CountOffers(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "failed to count offers")
	}
	return count, nil
}

// DailyBest returns today's feed: the cheapest offer per product published
// in the current day window, cheapest first, with collaboration counts.
func (s *OfferService) DailyBest(ctx context.Context) ([]*domain.RankedOffer, error) {
	dayStart := domain.StartOfDay(s.now())
	if dayStart.IsZero() {
		return nil, errors.Clock("could not determine the current day window")
	}

	ranked, err := s.store.DailyBestOffers(ctx, dayStart)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to rank offers")
	}
	return ranked, nil
}

// Delete removes an offer. Only the author may delete their own offer.
func (s *OfferService) Delete(ctx context.Context, userID, offerID string) error {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return s.mapStoreErr(err, "offer not found")
	}

	if offer.AuthorID != userID {
		return errors.Forbidden("only the author can delete an offer")
	}

	if err := s.store.DeleteOffer(ctx, offerID); err != nil {
		return s.mapStoreErr(err, "offer not found")
	}
	return nil
}

// mapStoreErr converts store sentinels into domain errors.
func (s *OfferService) mapStoreErr(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFound(notFoundMsg)
	}
	return errors.Wrap(err, errors.CodeInternal, "storage failure")
}
