package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"offerdesk_backend/internal/events"
	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/internal/offers/transport"
	"offerdesk_backend/platform/apperr"
	"offerdesk_backend/platform/sanitize"
)

const maxNoteRunes = 2000

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RequestMeta carries audit context extracted from the inbound request.
type RequestMeta struct {
	Origin       string
	RemoteIP     string
	ForwardedFor string
	UserAgent    string
}

// Submit validates and normalizes an inbound offer, enforces the dedupe
// window and creates a new open offer. The "received" notification is
// published on the event bus and never affects the returned result.
func (s *Service) Submit(ctx context.Context, req transport.SubmitOfferRequest, meta RequestMeta) (int64, error) {
	if err := s.checkOrigin(meta.Origin); err != nil {
		return 0, err
	}

	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(email) {
		return 0, apperr.Validation("invalid email")
	}

	productID := strings.TrimSpace(req.ProductID)
	variantID := strings.TrimSpace(req.VariantID)
	if productID == "" || variantID == "" {
		return 0, apperr.Validation("missing product or variant id")
	}

	offerCents, err := parseOfferAmount(req.Offer)
	if err != nil {
		return 0, err
	}

	emailNorm := strings.ToLower(email)
	note := clampRunes(sanitize.Text(req.Note), maxNoteRunes)
	priceCents := req.PriceCents
	if priceCents < 0 {
		priceCents = 0
	}

	exists, err := s.repo.ExistsOpenRecent(ctx, emailNorm, variantID, s.cfg.GetDedupeWindow())
	if err != nil {
		s.log.DatabaseError("dedupe check", err)
		return 0, apperr.Internal("could not store offer")
	}
	if exists {
		return 0, apperr.TooManyRequests("an open offer for this item already exists")
	}

	offer, err := s.repo.Insert(ctx, repository.NewOffer{
		ShopDomain:    strings.TrimSpace(req.ShopDomain),
		ProductID:     productID,
		ProductHandle: strings.TrimSpace(req.ProductHandle),
		ProductTitle:  strings.TrimSpace(req.ProductTitle),
		VariantID:     variantID,
		VariantTitle:  strings.TrimSpace(req.VariantTitle),
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		PriceCents:    priceCents,
		OfferCents:    offerCents,
		Email:         email,
		EmailNorm:     emailNorm,
		Note:          note,
		Lang:          strings.TrimSpace(req.Lang),
		ClientIP:      s.clientIP(meta),
		UserAgent:     meta.UserAgent,
	})
	if err != nil {
		s.log.DatabaseError("insert offer", err)
		return 0, apperr.Internal("could not store offer")
	}

	s.bus.Publish(ctx, events.OfferReceived{
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

	return offer.ID, nil
}

// checkOrigin enforces the configured origin allow-list. An empty list
// allows every origin.
func (s *Service) checkOrigin(origin string) error {
	allowed := s.cfg.GetAllowedOrigins()
	if len(allowed) == 0 {
		return nil
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	for _, a := range allowed {
		if strings.EqualFold(origin, strings.TrimRight(a, "/")) {
			return nil
		}
	}
	return apperr.Forbidden("origin not allowed")
}

// parseOfferAmount converts a decimal major-unit amount into minor units,
// rounding half away from zero at two decimal places. The result must be a
// positive integer number of minor units that fits int64; IntPart would
// silently wrap on larger values.
func parseOfferAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.Validation("invalid offer amount")
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsPositive() || !cents.BigInt().IsInt64() {
		return 0, apperr.Validation("invalid offer amount")
	}
	return cents.IntPart(), nil
}

// clientIP prefers the first hop of the proxy header over the socket
// address when the deployment trusts its proxy.
func (s *Service) clientIP(meta RequestMeta) string {
	if s.cfg.GetTrustProxyHeader() && meta.ForwardedFor != "" {
		first := meta.ForwardedFor
		if i := strings.IndexByte(first, ','); i >= 0 {
			first = first[:i]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return meta.RemoteIP
}

func clampRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
