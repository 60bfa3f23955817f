// Package markets resolves a shop's presentment currency and country.
// Resolution is a static host lookup, then a coarse top-level-domain
// heuristic, then a configured base market.
package markets

import "strings"

// Market is a presentment currency and country pair.
type Market struct {
	Currency string
	Country  string
}

// Resolver maps shop hosts to markets.
type Resolver struct {
	fallback Market
}

// hostMarkets pins known shop hosts to their market. Checked before the
// TLD heuristic so a shop on a generic domain can still be mapped.
var hostMarkets = map[string]Market{
	"shop.example.co.uk": {Currency: "GBP", Country: "GB"},
	"shop.example.fr":    {Currency: "EUR", Country: "FR"},
	"shop.example.de":    {Currency: "EUR", Country: "DE"},
	"shop.example.com":   {Currency: "USD", Country: "US"},
}

// tldMarkets maps country-code TLDs to markets.
var tldMarkets = map[string]Market{
	"uk": {Currency: "GBP", Country: "GB"},
	"de": {Currency: "EUR", Country: "DE"},
	"fr": {Currency: "EUR", Country: "FR"},
	"es": {Currency: "EUR", Country: "ES"},
	"it": {Currency: "EUR", Country: "IT"},
	"nl": {Currency: "EUR", Country: "NL"},
	"pt": {Currency: "EUR", Country: "PT"},
	"at": {Currency: "EUR", Country: "AT"},
	"be": {Currency: "EUR", Country: "BE"},
	"ie": {Currency: "EUR", Country: "IE"},
	"ch": {Currency: "CHF", Country: "CH"},
	"us": {Currency: "USD", Country: "US"},
	"ca": {Currency: "CAD", Country: "CA"},
	"au": {Currency: "AUD", Country: "AU"},
	"nz": {Currency: "NZD", Country: "NZ"},
	"jp": {Currency: "JPY", Country: "JP"},
	"se": {Currency: "SEK", Country: "SE"},
	"no": {Currency: "NOK", Country: "NO"},
	"dk": {Currency: "DKK", Country: "DK"},
	"pl": {Currency: "PLN", Country: "PL"},
}

// NewResolver creates a resolver with the given base market fallback.
func NewResolver(baseCurrency, baseCountry string) *Resolver {
	return &Resolver{fallback: Market{Currency: baseCurrency, Country: baseCountry}}
}

// Resolve returns the market for a shop host.
func (r *Resolver) Resolve(host string) Market {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	if m, ok := hostMarkets[host]; ok {
		return m
	}

	// Coarse heuristic: country-code TLD decides the market. Multi-label
	// suffixes like co.uk still end in the country code, so the last
	// label is enough.
	labels := strings.Split(host, ".")
	if len(labels) >= 2 {
		if m, ok := tldMarkets[labels[len(labels)-1]]; ok {
			return m
		}
	}

	return r.fallback
}
