package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"offerdesk_backend/internal/commerce"
	"offerdesk_backend/internal/events"
	"offerdesk_backend/platform/logger"
)

// Result reports the outcome of a dispatch attempt. Callers are permitted
// to ignore it: delivery failures are already logged and never propagate.
type Result struct {
	Delivered bool
	Reason    string
}

func delivered() Result { return Result{Delivered: true} }

func failed(err error) Result { return Result{Reason: err.Error()} }

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, htmlContent string) error
}

// Dispatcher resolves the buyer's language, renders the matching template
// set and sends the message best-effort.
type Dispatcher struct {
	sender   Sender
	opsEmail string
	log      *logger.Logger
}

// NewDispatcher creates a dispatcher. opsEmail may be empty; internal
// copies of received-offer notifications are then skipped.
func NewDispatcher(sender Sender, opsEmail string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, opsEmail: opsEmail, log: log}
}

// Subscribe registers the dispatcher's event handlers on the bus. Handlers
// always return nil: a failed send must never bubble back to the caller.
func (d *Dispatcher) Subscribe(bus events.Bus) {
	bus.Subscribe(events.OfferReceived{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(events.OfferReceived); ok {
			d.NotifyReceived(ctx, ev)
		}
		return nil
	}))
	bus.Subscribe(events.OfferAccepted{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(events.OfferAccepted); ok {
			d.NotifyAccepted(ctx, ev)
		}
		return nil
	}))
	bus.Subscribe(events.OfferDeclined{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(events.OfferDeclined); ok {
			d.NotifyDeclined(ctx, ev)
		}
		return nil
	}))
}

// NotifyReceived sends the "offer received" confirmation to the buyer and,
// when configured, a plain summary to the operations mailbox.
func (d *Dispatcher) NotifyReceived(ctx context.Context, ev events.OfferReceived) Result {
	lang := ResolveLanguage(ev.Lang)
	set := templatesFor(lang)
	params := TemplateParams{
		ProductTitle: ev.ProductTitle,
		VariantTitle: ev.VariantTitle,
		Amount:       FormatMoney(lang, ev.Currency, ev.OfferCents),
	}

	result := d.send(ctx, "received", ev.Email, set.receivedSubject(params), set.receivedBody(params))

	if d.opsEmail != "" {
		subject := fmt.Sprintf("New offer #%d on %s", ev.OfferID, ev.ShopDomain)
		body := fmt.Sprintf("<p>Offer #%d: %s for %s from %s</p>",
			ev.OfferID, FormatMoney(LangEN, ev.Currency, ev.OfferCents), params.product(), ev.Email)
		d.send(ctx, "received_ops", d.opsEmail, subject, body)
	}

	return result
}

// NotifyAccepted sends the localized acceptance message including the
// discount code, optional expiry and the two deep links.
func (d *Dispatcher) NotifyAccepted(ctx context.Context, ev events.OfferAccepted) Result {
	lang := ResolveLanguage(ev.Lang)
	set := templatesFor(lang)

	expiry := ""
	if ev.CodeExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, ev.CodeExpiresAt); err == nil {
			expiry = FormatDate(lang, t)
		} else {
			// degrade to the raw source string rather than dropping it
			expiry = ev.CodeExpiresAt
		}
	}

	cartURL, codeURL := deepLinks(ev.ShopDomain, ev.VariantID, ev.DiscountCode)
	params := TemplateParams{
		ProductTitle: ev.ProductTitle,
		VariantTitle: ev.VariantTitle,
		Amount:       FormatMoney(lang, ev.Currency, ev.OfferCents),
		Code:         ev.DiscountCode,
		Expiry:       expiry,
		CartURL:      cartURL,
		CodeURL:      codeURL,
	}

	return d.send(ctx, "accepted", ev.Email, set.acceptedSubject(params), set.acceptedBody(params))
}

// NotifyDeclined sends the localized decline message. No code is included.
func (d *Dispatcher) NotifyDeclined(ctx context.Context, ev events.OfferDeclined) Result {
	lang := ResolveLanguage(ev.Lang)
	set := templatesFor(lang)
	params := TemplateParams{
		ProductTitle: ev.ProductTitle,
		VariantTitle: ev.VariantTitle,
		Amount:       FormatMoney(lang, ev.Currency, ev.OfferCents),
	}

	return d.send(ctx, "declined", ev.Email, set.declinedSubject(params), set.declinedBody(params))
}

func (d *Dispatcher) send(ctx context.Context, kind, to, subject, body string) Result {
	if to == "" {
		return failed(fmt.Errorf("empty recipient"))
	}
	if err := d.sender.Send(ctx, to, subject, body); err != nil {
		d.log.NotificationFailed(kind, to, err)
		return failed(err)
	}
	return delivered()
}

// deepLinks builds the two buyer-facing URLs: one that adds the variant to
// the cart before applying the code, one that only applies the code.
func deepLinks(shopDomain, variantID, code string) (cartURL, codeURL string) {
	host := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(shopDomain), "https://"), "http://")
	host = strings.TrimRight(host, "/")

	codeURL = fmt.Sprintf("https://%s/discount/%s", host, url.PathEscape(code))

	vid, err := commerce.ExtractVariantID(variantID)
	if err != nil {
		// no resolvable variant: both links just apply the code
		return codeURL, codeURL
	}
	cartURL = fmt.Sprintf("https://%s/cart/%d:1?discount=%s", host, vid, url.QueryEscape(code))
	return cartURL, codeURL
}
