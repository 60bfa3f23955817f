// Package commerce provides the client for the e-commerce platform's admin
// APIs: price rule and discount code creation over REST, draft order
// creation and invoice sending over GraphQL.
package commerce

import (
	"context"
	"time"
)

// DiscountParams describes a single-use, variant-scoped, fixed-amount
// discount rule.
type DiscountParams struct {
	Code        string
	VariantID   int64
	AmountCents int64
	StartsAt    time.Time
	EndsAt      time.Time
}

// Discount is the provisioned rule and code.
type Discount struct {
	Code        string
	PriceRuleID string
	EndsAt      time.Time
}

// LineItem is one draft order line: a variant at quantity 1 with a price
// override in major units.
type LineItem struct {
	VariantID int64
	Quantity  int
	// Price is the overridden per-unit price as a major-unit decimal
	// string, e.g. "50.00".
	Price string
	// OfferID is attached as a custom attribute for traceability.
	OfferID int64
}

// DraftOrderParams describes a multi-line draft order priced in a
// presentment currency.
type DraftOrderParams struct {
	Email        string
	CurrencyCode string
	LineItems    []LineItem
	Note         string
	Tags         []string
}

// Client is the commerce platform collaborator used by the offers service.
type Client interface {
	// CreateDiscount provisions a price rule plus an attached discount code.
	CreateDiscount(ctx context.Context, params DiscountParams) (Discount, error)
	// CreateDraftOrder creates one draft order and returns its platform id.
	CreateDraftOrder(ctx context.Context, params DraftOrderParams) (string, error)
	// SendDraftOrderInvoice asks the platform to email the invoice for a
	// draft order to its customer.
	SendDraftOrderInvoice(ctx context.Context, draftOrderID string) error
}
