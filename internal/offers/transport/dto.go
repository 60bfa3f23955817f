// Package transport defines the request and response shapes of the offers
// HTTP surface.
package transport

// SubmitOfferRequest is the public offer submission body.
// The offer amount arrives as a decimal string in major units; the service
// converts it to minor units.
type SubmitOfferRequest struct {
	ShopDomain    string `json:"shop_domain" validate:"required,max=255"`
	ProductID     string `json:"product_id" validate:"max=255"`
	ProductHandle string `json:"product_handle" validate:"max=255"`
	ProductTitle  string `json:"product_title" validate:"max=512"`
	VariantID     string `json:"variant_id" validate:"max=255"`
	VariantTitle  string `json:"variant_title" validate:"max=512"`
	Currency      string `json:"currency" validate:"max=8"`
	PriceCents    int64  `json:"price_cents"`
	Offer         string `json:"offer" validate:"required,max=32"`
	Email         string `json:"email" validate:"max=320"`
	Note          string `json:"note" validate:"max=5000"`
	Lang          string `json:"lang" validate:"max=16"`
}

// SubmitOfferResponse acknowledges a stored offer.
type SubmitOfferResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// OfferResponse represents one offer in admin API responses.
type OfferResponse struct {
	ID           int64  `json:"id"`
	CreatedAt    string `json:"createdAt"`
	ShopDomain   string `json:"shopDomain"`
	ProductTitle string `json:"productTitle"`
	VariantID    string `json:"variantId"`
	VariantTitle string `json:"variantTitle"`
	Currency     string `json:"currency"`
	PriceCents   int64  `json:"priceCents"`
	OfferCents   int64  `json:"offerCents"`
	Email        string `json:"email"`
	Note         string `json:"note,omitempty"`
	Lang         string `json:"lang,omitempty"`
	Status       string `json:"status"`
	DiscountCode string `json:"discountCode,omitempty"`
	DiscountEnds string `json:"discountExpiresAt,omitempty"`
	DraftOrderID string `json:"draftOrderId,omitempty"`
	DraftedAt    string `json:"draftedAt,omitempty"`
}

// OfferListResponse wraps a list of offers.
type OfferListResponse struct {
	Items []OfferResponse `json:"items"`
	Total int             `json:"total"`
}

// ProvisionResponse acknowledges a provisioned discount.
type ProvisionResponse struct {
	OK        bool   `json:"ok"`
	Code      string `json:"code"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// BundleResponse acknowledges a created draft order.
type BundleResponse struct {
	OK        bool   `json:"ok"`
	OrderID   string `json:"orderId"`
	ItemCount int    `json:"itemCount"`
	Currency  string `json:"currency"`
}
