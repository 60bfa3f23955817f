// Package service implements the offer lifecycle: intake with dedupe, the
// admin-driven status state machine, discount provisioning and draft order
// bundling.
package service

import (
	"context"
	"time"

	"offerdesk_backend/internal/commerce"
	"offerdesk_backend/internal/events"
	"offerdesk_backend/internal/markets"
	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/internal/offers/transport"
	"offerdesk_backend/platform/config"
	"offerdesk_backend/platform/logger"
)

// Config is the configuration slice the service needs.
type Config interface {
	config.IntakeConfig
	GetDiscountTTL() time.Duration
}

// Service provides business logic for offers.
type Service struct {
	repo     repository.Repository
	commerce commerce.Client
	markets  *markets.Resolver
	bus      events.Bus
	cfg      Config
	log      *logger.Logger

	// now is the service clock, swappable in tests.
	now func() time.Time
}

// New creates a new offers service.
func New(repo repository.Repository, client commerce.Client, resolver *markets.Resolver, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		commerce: client,
		markets:  resolver,
		bus:      bus,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// GetByID retrieves one offer.
func (s *Service) GetByID(ctx context.Context, id int64) (repository.Offer, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRecent returns the most recent offers for the admin views.
func (s *Service) ListRecent(ctx context.Context, limit int) (transport.OfferListResponse, error) {
	if limit < 1 || limit > 500 {
		limit = 200
	}
	offers, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return transport.OfferListResponse{}, err
	}

	items := make([]transport.OfferResponse, 0, len(offers))
	for _, o := range offers {
		items = append(items, toResponse(o))
	}
	return transport.OfferListResponse{Items: items, Total: len(items)}, nil
}

func toResponse(o repository.Offer) transport.OfferResponse {
	resp := transport.OfferResponse{
		ID:           o.ID,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		ShopDomain:   o.ShopDomain,
		ProductTitle: o.ProductTitle,
		VariantID:    o.VariantID,
		VariantTitle: o.VariantTitle,
		Currency:     o.Currency,
		PriceCents:   o.PriceCents,
		OfferCents:   o.OfferCents,
		Email:        o.Email,
		Note:         o.Note,
		Lang:         o.Lang,
		Status:       string(o.Status),
	}
	if o.DiscountCode != nil {
		resp.DiscountCode = *o.DiscountCode
	}
	if o.DiscountExpiresAt != nil {
		resp.DiscountEnds = o.DiscountExpiresAt.Format(time.RFC3339)
	}
	if o.DraftOrderID != nil {
		resp.DraftOrderID = *o.DraftOrderID
	}
	if o.DraftedAt != nil {
		resp.DraftedAt = o.DraftedAt.Format(time.RFC3339)
	}
	return resp
}
