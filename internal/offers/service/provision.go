package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"offerdesk_backend/internal/commerce"
	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/platform/apperr"
)

// Provision computes the discount for an accepted offer and provisions a
// single-use, variant-scoped code on the commerce platform, persisting the
// result onto the offer. Calling it again once a code is stored is a no-op,
// which makes repeated accepts and manual retries safe.
func (s *Service) Provision(ctx context.Context, id int64) (repository.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Offer{}, err
	}
	return s.provision(ctx, offer)
}

func (s *Service) provision(ctx context.Context, offer repository.Offer) (repository.Offer, error) {
	if offer.HasDiscount() {
		return offer, nil
	}

	if offer.PriceCents <= 0 || offer.OfferCents <= 0 || offer.OfferCents >= offer.PriceCents {
		return repository.Offer{}, apperr.Conflict("no discount needed")
	}

	variantID, err := commerce.ExtractVariantID(offer.VariantID)
	if err != nil {
		return repository.Offer{}, apperr.Validation("unresolvable variant id")
	}

	amount := offer.PriceCents - offer.OfferCents
	code := discountCode(offer.ID)
	startsAt := s.now()
	endsAt := startsAt.Add(s.cfg.GetDiscountTTL())

	discount, err := s.commerce.CreateDiscount(ctx, commerce.DiscountParams{
		Code:        code,
		VariantID:   variantID,
		AmountCents: amount,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	})
	if err != nil {
		s.log.CommerceError("create discount", offer.ID, err)
		return repository.Offer{}, apperr.Unavailable("discount provisioning failed", err).WithOp("offers.provision")
	}

	if err := s.repo.SetDiscount(ctx, offer.ID, discount.Code, discount.PriceRuleID, discount.EndsAt); err != nil {
		s.log.DatabaseError("set discount", err)
		return repository.Offer{}, apperr.Internal("could not store discount")
	}

	offer.DiscountCode = &discount.Code
	offer.PriceRuleID = &discount.PriceRuleID
	offer.DiscountExpiresAt = &discount.EndsAt
	return offer, nil
}

// discountCode builds a human-legible code embedding the offer id plus a
// short random suffix. The suffix space makes collisions negligible, so no
// uniqueness retry loop is needed.
func discountCode(offerID int64) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("OFFER%d-%s", offerID, suffix)
}
