package service

import (
	"context"
	"fmt"
	"strings"

	"offerdesk_backend/internal/commerce"
	"offerdesk_backend/internal/offers/transport"
	"offerdesk_backend/platform/apperr"
)

const draftOrderTag = "offerdesk"

// Bundle collects all accepted-but-not-yet-bundled offers for the buyer and
// shop, creates one multi-line draft order in the shop's presentment
// currency and marks the bundled offers with the resulting order id.
// Already-bundled offers are excluded by the initial query, which makes
// re-running the bundler idempotent.
func (s *Service) Bundle(ctx context.Context, emailNorm, shopDomain string) (transport.BundleResponse, error) {
	offers, err := s.repo.ListBundleable(ctx, emailNorm, shopDomain)
	if err != nil {
		s.log.DatabaseError("list bundleable offers", err)
		return transport.BundleResponse{}, apperr.Internal("could not load offers")
	}
	if len(offers) == 0 {
		return transport.BundleResponse{}, apperr.NotFound("nothing to bundle")
	}

	market := s.markets.Resolve(shopDomain)

	lineItems := make([]commerce.LineItem, 0, len(offers))
	bundledIDs := make([]int64, 0, len(offers))
	for _, offer := range offers {
		variantID, err := commerce.ExtractVariantID(offer.VariantID)
		if err != nil {
			// one bad row must not fail the whole batch
			s.log.WithOffer(offer.ID).Warn("skipping offer with unresolvable variant", "variant_id", offer.VariantID)
			continue
		}
		lineItems = append(lineItems, commerce.LineItem{
			VariantID: variantID,
			Quantity:  1,
			Price:     commerce.MajorUnits(offer.OfferCents),
			OfferID:   offer.ID,
		})
		bundledIDs = append(bundledIDs, offer.ID)
	}
	if len(lineItems) == 0 {
		return transport.BundleResponse{}, apperr.Validation("no valid line items")
	}

	email := offers[0].Email
	note := bundleNote(bundledIDs, market.Currency, market.Country)

	orderID, err := s.commerce.CreateDraftOrder(ctx, commerce.DraftOrderParams{
		Email:        email,
		CurrencyCode: market.Currency,
		LineItems:    lineItems,
		Note:         note,
		Tags:         []string{draftOrderTag},
	})
	if err != nil {
		s.log.CommerceError("create draft order", bundledIDs[0], err)
		return transport.BundleResponse{}, apperr.Unavailable("draft order creation failed", err).WithOp("offers.bundle")
	}

	if err := s.repo.MarkBundled(ctx, bundledIDs, orderID); err != nil {
		s.log.DatabaseError("mark offers bundled", err)
		return transport.BundleResponse{}, apperr.Internal("could not mark offers bundled")
	}

	// the draft order exists either way; a failed invoice send is only logged
	if err := s.commerce.SendDraftOrderInvoice(ctx, orderID); err != nil {
		s.log.CommerceError("send draft order invoice", bundledIDs[0], err)
	}

	return transport.BundleResponse{
		OK:        true,
		OrderID:   orderID,
		ItemCount: len(lineItems),
		Currency:  market.Currency,
	}, nil
}

func bundleNote(ids []int64, currency, country string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return fmt.Sprintf("Offers: %s | market: %s/%s", strings.Join(parts, ", "), currency, country)
}
