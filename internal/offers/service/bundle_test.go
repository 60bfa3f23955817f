package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"offerdesk_backend/platform/apperr"
)

// acceptOffers submits and accepts offers for the given variant ids, all
// from the same buyer and shop, and returns the stored offer ids.
func acceptOffers(t *testing.T, svc *Service, variantIDs ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(variantIDs))
	for _, vid := range variantIDs {
		req := validSubmitRequest()
		req.VariantID = vid
		id, err := svc.Submit(context.Background(), req, RequestMeta{})
		if err != nil {
			t.Fatalf("Submit %s: %v", vid, err)
		}
		if err := svc.SetStatus(context.Background(), id, "accepted"); err != nil {
			t.Fatalf("accept %s: %v", vid, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestBundle_CreatesDraftOrder(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	svc := newTestService(repo, client, &recordingBus{}, fakeConfig{})

	ids := acceptOffers(t, svc,
		"gid://shopify/ProductVariant/111",
		"gid://shopify/ProductVariant/222",
	)

	resp, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de")
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if resp.ItemCount != 2 {
		t.Errorf("expected 2 line items, got %d", resp.ItemCount)
	}
	if resp.Currency != "EUR" {
		t.Errorf("expected EUR for a .de shop, got %s", resp.Currency)
	}
	if resp.OrderID == "" {
		t.Errorf("expected a draft order id")
	}

	if len(client.draftOrders) != 1 {
		t.Fatalf("expected 1 draft order call, got %d", len(client.draftOrders))
	}
	order := client.draftOrders[0]
	if order.Email != "A@B.com" {
		t.Errorf("expected buyer email on order, got %s", order.Email)
	}
	if len(order.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(order.LineItems))
	}
	if order.LineItems[0].VariantID != 111 || order.LineItems[1].VariantID != 222 {
		t.Errorf("unexpected line item variants: %+v", order.LineItems)
	}
	if order.LineItems[0].Price != "50.00" {
		t.Errorf("expected offer amount as line price, got %s", order.LineItems[0].Price)
	}
	if !strings.Contains(order.Note, fmt.Sprintf("%d", ids[0])) {
		t.Errorf("expected offer ids in order note, got %q", order.Note)
	}

	for _, id := range ids {
		o := repo.offers[id]
		if o.DraftOrderID == nil || *o.DraftOrderID != resp.OrderID {
			t.Errorf("offer %d not marked with order id", id)
		}
		if o.DraftedAt == nil {
			t.Errorf("offer %d missing drafted timestamp", id)
		}
	}

	if len(client.invoices) != 1 || client.invoices[0] != resp.OrderID {
		t.Errorf("expected invoice sent for %s, got %v", resp.OrderID, client.invoices)
	}
}

func TestBundle_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	svc := newTestService(repo, client, &recordingBus{}, fakeConfig{})

	acceptOffers(t, svc, "gid://shopify/ProductVariant/111")

	if _, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de"); err != nil {
		t.Fatalf("first Bundle: %v", err)
	}

	// the second run finds nothing; no second order is created
	_, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected nothing to bundle, got %v", err)
	}
	if len(client.draftOrders) != 1 {
		t.Errorf("expected exactly 1 draft order, got %d", len(client.draftOrders))
	}
}

func TestBundle_SkipsUnresolvableVariants(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	svc := newTestService(repo, client, &recordingBus{}, fakeConfig{})

	ids := acceptOffers(t, svc,
		"gid://shopify/ProductVariant/111",
		"broken-variant-id",
		"gid://shopify/ProductVariant/333",
	)

	resp, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de")
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if resp.ItemCount != 2 {
		t.Fatalf("expected the bad row skipped, got %d items", resp.ItemCount)
	}

	if repo.offers[ids[1]].DraftOrderID != nil {
		t.Errorf("skipped offer must stay unbundled")
	}
	if repo.offers[ids[0]].DraftOrderID == nil || repo.offers[ids[2]].DraftOrderID == nil {
		t.Errorf("valid offers must be marked bundled")
	}
}

func TestBundle_NoValidLineItems(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeCommerce{}, &recordingBus{}, fakeConfig{})

	acceptOffers(t, svc, "broken-variant-id")

	_, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBundle_ExcludesOtherBuyersAndStatuses(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	svc := newTestService(repo, client, &recordingBus{}, fakeConfig{})

	acceptOffers(t, svc, "gid://shopify/ProductVariant/111")

	// same shop, different buyer
	other := validSubmitRequest()
	other.Email = "other@b.com"
	other.VariantID = "gid://shopify/ProductVariant/222"
	otherID, err := svc.Submit(context.Background(), other, RequestMeta{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := svc.SetStatus(context.Background(), otherID, "accepted"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// same buyer, still open
	open := validSubmitRequest()
	open.VariantID = "gid://shopify/ProductVariant/333"
	if _, err := svc.Submit(context.Background(), open, RequestMeta{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	resp, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de")
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if resp.ItemCount != 1 {
		t.Fatalf("expected only the buyer's accepted offer, got %d items", resp.ItemCount)
	}
}

func TestBundle_DraftOrderFailureLeavesOffersUnbundled(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{draftErr: errors.New("platform down")}
	svc := newTestService(repo, client, &recordingBus{}, fakeConfig{})

	ids := acceptOffers(t, svc, "gid://shopify/ProductVariant/111")

	_, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if repo.offers[ids[0]].DraftOrderID != nil {
		t.Errorf("offer must stay bundleable after failure")
	}

	// a later retry succeeds
	client.draftErr = nil
	if _, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de"); err != nil {
		t.Fatalf("retry Bundle: %v", err)
	}
}

func TestBundle_InvoiceFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{invoiceErr: errors.New("smtp down")}
	svc := newTestService(repo, client, &recordingBus{}, fakeConfig{})

	ids := acceptOffers(t, svc, "gid://shopify/ProductVariant/111")

	resp, err := svc.Bundle(context.Background(), "a@b.com", "some-shop.de")
	if err != nil {
		t.Fatalf("Bundle must succeed despite invoice failure, got %v", err)
	}
	if repo.offers[ids[0]].DraftOrderID == nil || *repo.offers[ids[0]].DraftOrderID != resp.OrderID {
		t.Errorf("offer must be marked bundled")
	}
}
