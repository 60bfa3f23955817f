package markets

import "testing"

func TestResolve_StaticHostWinsOverTLD(t *testing.T) {
	r := NewResolver("EUR", "DE")

	m := r.Resolve("shop.example.com")
	if m.Currency != "USD" || m.Country != "US" {
		t.Fatalf("expected USD/US for pinned host, got %s/%s", m.Currency, m.Country)
	}
}

func TestResolve_TLDHeuristic(t *testing.T) {
	r := NewResolver("EUR", "DE")

	cases := []struct {
		host     string
		currency string
		country  string
	}{
		{"some-shop.fr", "EUR", "FR"},
		{"some-shop.co.uk", "GBP", "GB"},
		{"some-shop.ch", "CHF", "CH"},
		{"some-shop.jp", "JPY", "JP"},
	}

	for _, tc := range cases {
		m := r.Resolve(tc.host)
		if m.Currency != tc.currency || m.Country != tc.country {
			t.Errorf("%s: expected %s/%s, got %s/%s", tc.host, tc.currency, tc.country, m.Currency, m.Country)
		}
	}
}

func TestResolve_FallbackToBaseMarket(t *testing.T) {
	r := NewResolver("EUR", "DE")

	// .com is neither a pinned host nor a country TLD: base market wins
	for _, host := range []string{"some-shop.myshopify.com", "some-shop.xyz"} {
		m := r.Resolve(host)
		if m.Currency != "EUR" || m.Country != "DE" {
			t.Fatalf("%s: expected base market EUR/DE, got %s/%s", host, m.Currency, m.Country)
		}
	}
}

func TestResolve_StripsSchemeAndPort(t *testing.T) {
	r := NewResolver("EUR", "DE")

	m := r.Resolve("https://some-shop.fr:443/path")
	if m.Country != "FR" {
		t.Fatalf("expected FR, got %s", m.Country)
	}
}
