// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"offerdesk_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Offer Domain Events
// =============================================================================

// OfferReceived is published when a buyer submits a new offer.
type OfferReceived struct {
	BaseEvent
	OfferID      int64  `json:"offerId"`
	ShopDomain   string `json:"shopDomain"`
	Email        string `json:"email"`
	Lang         string `json:"lang"`
	ProductTitle string `json:"productTitle"`
	VariantTitle string `json:"variantTitle"`
	Currency     string `json:"currency"`
	OfferCents   int64  `json:"offerCents"`
}

func (e OfferReceived) EventName() string { return "offers.offer.received" }

// OfferAccepted is published after an offer transitions into accepted and
// discount provisioning has been attempted.
type OfferAccepted struct {
	BaseEvent
	OfferID       int64  `json:"offerId"`
	ShopDomain    string `json:"shopDomain"`
	Email         string `json:"email"`
	Lang          string `json:"lang"`
	ProductTitle  string `json:"productTitle"`
	ProductHandle string `json:"productHandle"`
	VariantTitle  string `json:"variantTitle"`
	VariantID     string `json:"variantId"`
	Currency      string `json:"currency"`
	OfferCents    int64  `json:"offerCents"`
	DiscountCode  string `json:"discountCode"`
	CodeExpiresAt string `json:"codeExpiresAt,omitempty"`
}

func (e OfferAccepted) EventName() string { return "offers.offer.accepted" }

// OfferDeclined is published after an offer transitions into declined.
type OfferDeclined struct {
	BaseEvent
	OfferID      int64  `json:"offerId"`
	ShopDomain   string `json:"shopDomain"`
	Email        string `json:"email"`
	Lang         string `json:"lang"`
	ProductTitle string `json:"productTitle"`
	VariantTitle string `json:"variantTitle"`
	Currency     string `json:"currency"`
	OfferCents   int64  `json:"offerCents"`
}

func (e OfferDeclined) EventName() string { return "offers.offer.declined" }
