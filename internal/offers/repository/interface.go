package repository

import (
	"context"
	"time"
)

// Status is the offer lifecycle state.
type Status string

const (
	StatusOpen     Status = "open"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusExpired  Status = "expired"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAccepted, StatusDeclined, StatusExpired:
		return true
	}
	return false
}

// Offer is the stored offer record, the source of truth for dedupe and all
// downstream actions.
type Offer struct {
	ID            int64
	CreatedAt     time.Time
	ShopDomain    string
	ProductID     string
	ProductHandle string
	ProductTitle  string
	VariantID     string
	VariantTitle  string
	Currency      string
	PriceCents    int64
	OfferCents    int64
	Email         string
	EmailNorm     string
	Note          string
	Lang          string
	ClientIP      string
	UserAgent     string
	Status        Status

	// Discount fields, nil until provisioned. Write-once-then-stable:
	// provisioning is skipped when DiscountCode is already set.
	DiscountCode      *string
	PriceRuleID       *string
	DiscountExpiresAt *time.Time

	// Draft order fields, nil until bundled.
	DraftOrderID *string
	DraftedAt    *time.Time
}

// HasDiscount reports whether a discount code has been provisioned.
func (o Offer) HasDiscount() bool {
	return o.DiscountCode != nil && *o.DiscountCode != ""
}

// NewOffer carries the validated, normalized fields for an insert.
// ID, CreatedAt and Status are assigned by the store.
type NewOffer struct {
	ShopDomain    string
	ProductID     string
	ProductHandle string
	ProductTitle  string
	VariantID     string
	VariantTitle  string
	Currency      string
	PriceCents    int64
	OfferCents    int64
	Email         string
	EmailNorm     string
	Note          string
	Lang          string
	ClientIP      string
	UserAgent     string
}

// Repository is the offer store.
type Repository interface {
	// Insert creates a new open offer and returns the stored record.
	Insert(ctx context.Context, offer NewOffer) (Offer, error)

	// GetByID retrieves an offer by id.
	GetByID(ctx context.Context, id int64) (Offer, error)

	// ListRecent returns the most recently created offers, newest first.
	ListRecent(ctx context.Context, limit int) ([]Offer, error)

	// ExistsOpenRecent reports whether an open offer for the same
	// normalized email and variant exists within the window, measured
	// against the store's clock.
	ExistsOpenRecent(ctx context.Context, emailNorm, variantID string, window time.Duration) (bool, error)

	// UpdateStatus sets the lifecycle state of one offer.
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// SetDiscount persists the provisioned code, rule id and expiry.
	SetDiscount(ctx context.Context, id int64, code, ruleID string, expiresAt time.Time) error

	// ListBundleable returns accepted offers for the email/shop pair that
	// have not been attached to a draft order yet, oldest first.
	ListBundleable(ctx context.Context, emailNorm, shopDomain string) ([]Offer, error)

	// MarkBundled attaches the draft order id and a bundling timestamp to
	// the given offers in one batch write.
	MarkBundled(ctx context.Context, ids []int64, draftOrderID string) error

	// ExpireOpenOlderThan transitions open offers created before the
	// cutoff into expired and returns how many were affected.
	ExpireOpenOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
