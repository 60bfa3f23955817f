package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"offerdesk_backend/platform/config"

	"github.com/shopspring/decimal"
)

// ShopifyClient talks to the Shopify admin APIs: REST for price rules and
// discount codes, GraphQL for draft orders.
type ShopifyClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewShopifyClient creates a client from the commerce configuration.
// The base URL is the admin API root, e.g.
// https://my-shop.myshopify.com/admin/api/2024-01
func NewShopifyClient(cfg config.CommerceConfig) *ShopifyClient {
	return &ShopifyClient{
		baseURL:     strings.TrimRight(cfg.GetCommerceAPIBaseURL(), "/"),
		accessToken: cfg.GetCommerceAccessToken(),
		client:      &http.Client{Timeout: 20 * time.Second},
	}
}

// Compile-time check that ShopifyClient implements Client.
var _ Client = (*ShopifyClient)(nil)

// MajorUnits renders minor units as a 2-decimal major-unit string, the
// format the platform APIs expect for amounts.
func MajorUnits(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// =============================================================================
// REST: price rules and discount codes
// =============================================================================

type priceRuleRequest struct {
	PriceRule struct {
		Title              string  `json:"title"`
		TargetType         string  `json:"target_type"`
		TargetSelection    string  `json:"target_selection"`
		AllocationMethod   string  `json:"allocation_method"`
		ValueType          string  `json:"value_type"`
		Value              string  `json:"value"`
		CustomerSelection  string  `json:"customer_selection"`
		EntitledVariantIDs []int64 `json:"entitled_variant_ids"`
		UsageLimit         int     `json:"usage_limit"`
		OncePerCustomer    bool    `json:"once_per_customer"`
		StartsAt           string  `json:"starts_at"`
		EndsAt             string  `json:"ends_at"`
	} `json:"price_rule"`
}

type priceRuleResponse struct {
	PriceRule struct {
		ID int64 `json:"id"`
	} `json:"price_rule"`
}

type discountCodeRequest struct {
	DiscountCode struct {
		Code string `json:"code"`
	} `json:"discount_code"`
}

// CreateDiscount provisions a fixed-amount price rule scoped to exactly one
// variant, usage limit 1 and once-per-customer, then attaches the code.
func (s *ShopifyClient) CreateDiscount(ctx context.Context, params DiscountParams) (Discount, error) {
	var ruleReq priceRuleRequest
	ruleReq.PriceRule.Title = params.Code
	ruleReq.PriceRule.TargetType = "line_item"
	ruleReq.PriceRule.TargetSelection = "entitled"
	ruleReq.PriceRule.AllocationMethod = "across"
	ruleReq.PriceRule.ValueType = "fixed_amount"
	ruleReq.PriceRule.Value = "-" + MajorUnits(params.AmountCents)
	ruleReq.PriceRule.CustomerSelection = "all"
	ruleReq.PriceRule.EntitledVariantIDs = []int64{params.VariantID}
	ruleReq.PriceRule.UsageLimit = 1
	ruleReq.PriceRule.OncePerCustomer = true
	ruleReq.PriceRule.StartsAt = params.StartsAt.UTC().Format(time.RFC3339)
	ruleReq.PriceRule.EndsAt = params.EndsAt.UTC().Format(time.RFC3339)

	var ruleResp priceRuleResponse
	if err := s.post(ctx, "/price_rules.json", ruleReq, &ruleResp); err != nil {
		return Discount{}, fmt.Errorf("create price rule: %w", err)
	}
	if ruleResp.PriceRule.ID == 0 {
		return Discount{}, fmt.Errorf("create price rule: empty rule id in response")
	}

	var codeReq discountCodeRequest
	codeReq.DiscountCode.Code = params.Code
	if err := s.post(ctx, fmt.Sprintf("/price_rules/%d/discount_codes.json", ruleResp.PriceRule.ID), codeReq, nil); err != nil {
		return Discount{}, fmt.Errorf("create discount code: %w", err)
	}

	return Discount{
		Code:        params.Code,
		PriceRuleID: fmt.Sprintf("%d", ruleResp.PriceRule.ID),
		EndsAt:      params.EndsAt,
	}, nil
}

// =============================================================================
// GraphQL: draft orders
// =============================================================================

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphqlUserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type draftOrderCreateResponse struct {
	Data struct {
		DraftOrderCreate struct {
			DraftOrder struct {
				ID string `json:"id"`
			} `json:"draftOrder"`
			UserErrors []graphqlUserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type draftOrderInvoiceSendResponse struct {
	Data struct {
		DraftOrderInvoiceSend struct {
			DraftOrder struct {
				ID string `json:"id"`
			} `json:"draftOrder"`
			UserErrors []graphqlUserError `json:"userErrors"`
		} `json:"draftOrderInvoiceSend"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

const draftOrderCreateMutation = `
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder { id }
    userErrors { field message }
  }
}`

const draftOrderInvoiceSendMutation = `
mutation draftOrderInvoiceSend($id: ID!) {
  draftOrderInvoiceSend(id: $id) {
    draftOrder { id }
    userErrors { field message }
  }
}`

// CreateDraftOrder creates one multi-line draft order priced in the given
// presentment currency and returns its platform id.
func (s *ShopifyClient) CreateDraftOrder(ctx context.Context, params DraftOrderParams) (string, error) {
	lineItems := make([]map[string]interface{}, 0, len(params.LineItems))
	for _, li := range params.LineItems {
		lineItems = append(lineItems, map[string]interface{}{
			"variantId": VariantGID(li.VariantID),
			"quantity":  li.Quantity,
			"priceOverride": map[string]interface{}{
				"amount":       li.Price,
				"currencyCode": params.CurrencyCode,
			},
			"customAttributes": []map[string]string{
				{"key": "offer_id", "value": fmt.Sprintf("%d", li.OfferID)},
			},
		})
	}

	input := map[string]interface{}{
		"email":                   params.Email,
		"lineItems":               lineItems,
		"note":                    params.Note,
		"tags":                    params.Tags,
		"presentmentCurrencyCode": params.CurrencyCode,
	}

	var resp draftOrderCreateResponse
	if err := s.graphql(ctx, draftOrderCreateMutation, map[string]interface{}{"input": input}, &resp); err != nil {
		return "", fmt.Errorf("draft order create: %w", err)
	}
	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("draft order create: %s", resp.Errors[0].Message)
	}
	if errs := resp.Data.DraftOrderCreate.UserErrors; len(errs) > 0 {
		return "", fmt.Errorf("draft order create: %s", errs[0].Message)
	}
	id := resp.Data.DraftOrderCreate.DraftOrder.ID
	if id == "" {
		return "", fmt.Errorf("draft order create: empty draft order id in response")
	}
	return id, nil
}

// SendDraftOrderInvoice requests the platform to email the draft order
// invoice to its customer.
func (s *ShopifyClient) SendDraftOrderInvoice(ctx context.Context, draftOrderID string) error {
	var resp draftOrderInvoiceSendResponse
	if err := s.graphql(ctx, draftOrderInvoiceSendMutation, map[string]interface{}{"id": draftOrderID}, &resp); err != nil {
		return fmt.Errorf("draft order invoice send: %w", err)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("draft order invoice send: %s", resp.Errors[0].Message)
	}
	if errs := resp.Data.DraftOrderInvoiceSend.UserErrors; len(errs) > 0 {
		return fmt.Errorf("draft order invoice send: %s", errs[0].Message)
	}
	return nil
}

// =============================================================================
// Transport helpers
// =============================================================================

func (s *ShopifyClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-Shopify-Access-Token", s.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *ShopifyClient) graphql(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	return s.post(ctx, "/graphql.json", graphqlRequest{Query: query, Variables: variables}, out)
}
