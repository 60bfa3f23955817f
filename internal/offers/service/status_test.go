package service

import (
	"context"
	"errors"
	"testing"

	"offerdesk_backend/internal/events"
	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/platform/apperr"
)

func TestSetStatus_AcceptProvisionsAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	bus := &recordingBus{}
	svc := newTestService(repo, client, bus, fakeConfig{})

	id := submitOffer(t, svc)
	bus.published = nil

	if err := svc.SetStatus(context.Background(), id, "accepted"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	if repo.offers[id].Status != repository.StatusAccepted {
		t.Errorf("expected accepted status, got %s", repo.offers[id].Status)
	}
	if len(client.discounts) != 1 {
		t.Fatalf("expected discount provisioned on accept, got %d calls", len(client.discounts))
	}
	if client.discounts[0].AmountCents != 5000 {
		t.Errorf("expected 5000 cents off, got %d", client.discounts[0].AmountCents)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	ev, ok := bus.published[0].(events.OfferAccepted)
	if !ok {
		t.Fatalf("expected OfferAccepted, got %T", bus.published[0])
	}
	if ev.DiscountCode == "" {
		t.Errorf("expected code on acceptance event")
	}
	if ev.CodeExpiresAt == "" {
		t.Errorf("expected expiry on acceptance event")
	}
}

func TestSetStatus_AcceptSurvivesProvisioningFailure(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{discountErr: errors.New("boom")}
	bus := &recordingBus{}
	svc := newTestService(repo, client, bus, fakeConfig{})

	id := submitOffer(t, svc)
	bus.published = nil

	if err := svc.SetStatus(context.Background(), id, "accepted"); err != nil {
		t.Fatalf("SetStatus must not fail on provisioning error, got %v", err)
	}
	if repo.offers[id].Status != repository.StatusAccepted {
		t.Errorf("status must still be accepted")
	}

	// notification goes out without a code
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	if ev := bus.published[0].(events.OfferAccepted); ev.DiscountCode != "" {
		t.Errorf("expected empty code, got %q", ev.DiscountCode)
	}
}

func TestSetStatus_AcceptAtListPriceSkipsProvisioning(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	bus := &recordingBus{}
	svc := newTestService(repo, client, bus, fakeConfig{})

	req := validSubmitRequest()
	req.PriceCents = 5000 // equal to the 50.00 offer
	id, err := svc.Submit(context.Background(), req, RequestMeta{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	bus.published = nil

	if err := svc.SetStatus(context.Background(), id, "accepted"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if repo.offers[id].Status != repository.StatusAccepted {
		t.Errorf("expected accepted status, got %s", repo.offers[id].Status)
	}
	if len(client.discounts) != 0 {
		t.Errorf("no discount must be provisioned at list price")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	if ev := bus.published[0].(events.OfferAccepted); ev.DiscountCode != "" {
		t.Errorf("expected no code on event, got %q", ev.DiscountCode)
	}
}

func TestSetStatus_DeclinePublishesWithoutCode(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	bus := &recordingBus{}
	svc := newTestService(repo, client, bus, fakeConfig{})

	id := submitOffer(t, svc)
	bus.published = nil

	if err := svc.SetStatus(context.Background(), id, "declined"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if repo.offers[id].Status != repository.StatusDeclined {
		t.Errorf("expected declined status, got %s", repo.offers[id].Status)
	}
	if len(client.discounts) != 0 {
		t.Errorf("decline must not provision a discount")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.OfferDeclined); !ok {
		t.Fatalf("expected OfferDeclined, got %T", bus.published[0])
	}
}

func TestSetStatus_AnyTransitionAllowed(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, &fakeCommerce{}, bus, fakeConfig{})

	id := submitOffer(t, svc)

	// declined offers can be re-opened and re-decided
	for _, status := range []string{"declined", "open", "accepted", "expired", "accepted"} {
		if err := svc.SetStatus(context.Background(), id, status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if got := string(repo.offers[id].Status); got != status {
			t.Errorf("expected %s, got %s", status, got)
		}
	}
}

func TestSetStatus_ReacceptKeepsExistingCode(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCommerce{}
	svc := newTestService(repo, client, &recordingBus{}, fakeConfig{})

	id := submitOffer(t, svc)

	if err := svc.SetStatus(context.Background(), id, "accepted"); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if err := svc.SetStatus(context.Background(), id, "accepted"); err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if len(client.discounts) != 1 {
		t.Fatalf("re-accepting must not provision a second code, got %d calls", len(client.discounts))
	}
}

func TestSetStatus_InvalidValue(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeCommerce{}, &recordingBus{}, fakeConfig{})

	err := svc.SetStatus(context.Background(), 1, "rejected")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetStatus_UnknownOffer(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeCommerce{}, &recordingBus{}, fakeConfig{})

	err := svc.SetStatus(context.Background(), 404, "accepted")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
