package service

import (
	"context"
	"time"

	"offerdesk_backend/internal/events"
	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/platform/apperr"
)

// SetStatus performs the admin-driven lifecycle transition. Any state is
// reachable from any state. The status write is the authoritative step;
// entering accepted additionally triggers discount provisioning and the
// acceptance notification, entering declined triggers the decline
// notification. Those side effects are best-effort: their failure is
// logged and never rolls back or blocks the status change.
func (s *Service) SetStatus(ctx context.Context, id int64, value string) error {
	status := repository.Status(value)
	if !status.Valid() {
		return apperr.Validation("unknown status value")
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	offer.Status = status

	switch status {
	case repository.StatusAccepted:
		provisioned, err := s.provision(ctx, offer)
		switch {
		case err == nil:
			offer = provisioned
		case apperr.Is(err, apperr.KindConflict):
			// offer at/above list price: nothing to provision
			s.log.WithOffer(id).Debug("no discount provisioned", "reason", err.Error())
		default:
			// acceptance stands; the code can be provisioned later via
			// the manual retry endpoint
			s.log.WithOffer(id).Warn("discount provisioning failed after accept", "error", err.Error())
		}
		s.publishAccepted(ctx, offer)
	case repository.StatusDeclined:
		s.bus.Publish(ctx, events.OfferDeclined{
			BaseEvent:    events.NewBaseEvent(),
			OfferID:      offer.ID,
			ShopDomain:   offer.ShopDomain,
			Email:        offer.Email,
			Lang:         offer.Lang,
			ProductTitle: offer.ProductTitle,
			VariantTitle: offer.VariantTitle,
			Currency:     offer.Currency,
			OfferCents:   offer.OfferCents,
		})
	}

	return nil
}

func (s *Service) publishAccepted(ctx context.Context, offer repository.Offer) {
	ev := events.OfferAccepted{
		BaseEvent:     events.NewBaseEvent(),
		OfferID:       offer.ID,
		ShopDomain:    offer.ShopDomain,
		Email:         offer.Email,
		Lang:          offer.Lang,
		ProductTitle:  offer.ProductTitle,
		ProductHandle: offer.ProductHandle,
		VariantTitle:  offer.VariantTitle,
		VariantID:     offer.VariantID,
		Currency:      offer.Currency,
		OfferCents:    offer.OfferCents,
	}
	if offer.DiscountCode != nil {
		ev.DiscountCode = *offer.DiscountCode
	}
	if offer.DiscountExpiresAt != nil {
		ev.CodeExpiresAt = offer.DiscountExpiresAt.Format(time.RFC3339)
	}
	s.bus.Publish(ctx, ev)
}
