package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"offerdesk_backend/internal/commerce"
	"offerdesk_backend/internal/events"
	"offerdesk_backend/internal/markets"
	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/platform/apperr"
	"offerdesk_backend/platform/logger"
)

// fakeRepo is an in-memory offer store mirroring the repository contract.
type fakeRepo struct {
	offers           map[int64]repository.Offer
	nextID           int64
	setDiscountCalls int
	insertErr        error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{offers: make(map[int64]repository.Offer), nextID: 1}
}

func (f *fakeRepo) Insert(_ context.Context, n repository.NewOffer) (repository.Offer, error) {
	if f.insertErr != nil {
		return repository.Offer{}, f.insertErr
	}
	o := repository.Offer{
		ID:            f.nextID,
		CreatedAt:     time.Now(),
		ShopDomain:    n.ShopDomain,
		ProductID:     n.ProductID,
		ProductHandle: n.ProductHandle,
		ProductTitle:  n.ProductTitle,
		VariantID:     n.VariantID,
		VariantTitle:  n.VariantTitle,
		Currency:      n.Currency,
		PriceCents:    n.PriceCents,
		OfferCents:    n.OfferCents,
		Email:         n.Email,
		EmailNorm:     n.EmailNorm,
		Note:          n.Note,
		Lang:          n.Lang,
		ClientIP:      n.ClientIP,
		UserAgent:     n.UserAgent,
		Status:        repository.StatusOpen,
	}
	f.offers[o.ID] = o
	f.nextID++
	return o, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return repository.Offer{}, apperr.NotFound("offer not found")
	}
	return o, nil
}

func (f *fakeRepo) ListRecent(_ context.Context, limit int) ([]repository.Offer, error) {
	out := make([]repository.Offer, 0, len(f.offers))
	for _, o := range f.offers {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ExistsOpenRecent(_ context.Context, emailNorm, variantID string, window time.Duration) (bool, error) {
	cutoff := time.Now().Add(-window)
	for _, o := range f.offers {
		if o.EmailNorm == emailNorm && o.VariantID == variantID &&
			o.Status == repository.StatusOpen && o.CreatedAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status repository.Status) error {
	o, ok := f.offers[id]
	if !ok {
		return apperr.NotFound("offer not found")
	}
	o.Status = status
	f.offers[id] = o
	return nil
}

func (f *fakeRepo) SetDiscount(_ context.Context, id int64, code, ruleID string, expiresAt time.Time) error {
	o, ok := f.offers[id]
	if !ok {
		return apperr.NotFound("offer not found")
	}
	f.setDiscountCalls++
	o.DiscountCode = &code
	o.PriceRuleID = &ruleID
	o.DiscountExpiresAt = &expiresAt
	f.offers[id] = o
	return nil
}

func (f *fakeRepo) ListBundleable(_ context.Context, emailNorm, shopDomain string) ([]repository.Offer, error) {
	out := make([]repository.Offer, 0)
	for _, o := range f.offers {
		if o.EmailNorm == emailNorm && o.ShopDomain == shopDomain &&
			o.Status == repository.StatusAccepted && o.DraftOrderID == nil {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) MarkBundled(_ context.Context, ids []int64, draftOrderID string) error {
	now := time.Now()
	for _, id := range ids {
		o, ok := f.offers[id]
		if !ok {
			continue
		}
		o.DraftOrderID = &draftOrderID
		o.DraftedAt = &now
		f.offers[id] = o
	}
	return nil
}

func (f *fakeRepo) ExpireOpenOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, o := range f.offers {
		if o.Status == repository.StatusOpen && o.CreatedAt.Before(cutoff) {
			o.Status = repository.StatusExpired
			f.offers[id] = o
			n++
		}
	}
	return n, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

// fakeCommerce records platform calls.
type fakeCommerce struct {
	discounts   []commerce.DiscountParams
	draftOrders []commerce.DraftOrderParams
	invoices    []string
	discountErr error
	draftErr    error
	invoiceErr  error
}

func (f *fakeCommerce) CreateDiscount(_ context.Context, p commerce.DiscountParams) (commerce.Discount, error) {
	if f.discountErr != nil {
		return commerce.Discount{}, f.discountErr
	}
	f.discounts = append(f.discounts, p)
	return commerce.Discount{
		Code:        p.Code,
		PriceRuleID: fmt.Sprintf("rule-%d", len(f.discounts)),
		EndsAt:      p.EndsAt,
	}, nil
}

func (f *fakeCommerce) CreateDraftOrder(_ context.Context, p commerce.DraftOrderParams) (string, error) {
	if f.draftErr != nil {
		return "", f.draftErr
	}
	f.draftOrders = append(f.draftOrders, p)
	return fmt.Sprintf("gid://shopify/DraftOrder/%d", 1000+len(f.draftOrders)), nil
}

func (f *fakeCommerce) SendDraftOrderInvoice(_ context.Context, id string) error {
	if f.invoiceErr != nil {
		return f.invoiceErr
	}
	f.invoices = append(f.invoices, id)
	return nil
}

var _ commerce.Client = (*fakeCommerce)(nil)

// recordingBus captures published events synchronously.
type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

var _ events.Bus = (*recordingBus)(nil)

// fakeConfig is the service configuration slice used in tests.
type fakeConfig struct {
	origins    []string
	window     time.Duration
	trustProxy bool
	ttl        time.Duration
}

func (f fakeConfig) GetAllowedOrigins() []string    { return f.origins }
func (f fakeConfig) GetDedupeWindow() time.Duration { return f.window }
func (f fakeConfig) GetTrustProxyHeader() bool      { return f.trustProxy }
func (f fakeConfig) GetDiscountTTL() time.Duration  { return f.ttl }

func newTestService(repo *fakeRepo, client *fakeCommerce, bus *recordingBus, cfg fakeConfig) *Service {
	if cfg.window == 0 {
		cfg.window = 24 * time.Hour
	}
	if cfg.ttl == 0 {
		cfg.ttl = 168 * time.Hour
	}
	return New(repo, client, markets.NewResolver("EUR", "DE"), bus, cfg, logger.New("development"))
}
