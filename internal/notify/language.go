// Package notify resolves buyer languages, renders localized message
// templates and dispatches them fire-and-forget via the email sender.
package notify

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported template language key.
type Language string

// Supported language keys. Portuguese is carried as the pt-PT dialect key:
// only European Portuguese templates exist, and Brazilian Portuguese
// deliberately falls back to the default instead of receiving them.
const (
	LangEN   Language = "en"
	LangDE   Language = "de"
	LangFR   Language = "fr"
	LangES   Language = "es"
	LangIT   Language = "it"
	LangNL   Language = "nl"
	LangPTPT Language = "pt-PT"
)

// DefaultLanguage is used when no supported language matches.
const DefaultLanguage = LangEN

var supported = map[Language]bool{
	LangEN:   true,
	LangDE:   true,
	LangFR:   true,
	LangES:   true,
	LangIT:   true,
	LangNL:   true,
	LangPTPT: true,
}

// ResolveLanguage maps a declared language tag to a supported template key.
// Resolution order: exact match, then the primary subtag, then the
// special-case mapping of bare "pt" onto the pt-PT dialect key, then the
// default. A pure function; see the tests for the fallback matrix.
func ResolveLanguage(tag string) Language {
	norm := normalizeTag(tag)
	if norm == "" {
		return DefaultLanguage
	}

	if supported[Language(norm)] {
		return Language(norm)
	}

	primary := norm
	if i := strings.IndexByte(primary, '-'); i >= 0 {
		primary = primary[:i]
	}
	if supported[Language(primary)] {
		return Language(primary)
	}

	// Bare "pt" has no entry of its own; it resolves to the European
	// Portuguese dialect set. Regional variants other than pt-PT do not.
	if primary == "pt" && (norm == "pt" || norm == "pt-PT") {
		return LangPTPT
	}

	return DefaultLanguage
}

// normalizeTag canonicalizes case and separators: "PT_pt" becomes "pt-PT".
func normalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}
	parts := strings.Split(tag, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) > 1 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts[:min(len(parts), 2)], "-")
}

// Tag returns the x/text language tag for locale-aware formatting.
func (l Language) Tag() language.Tag {
	switch l {
	case LangDE:
		return language.German
	case LangFR:
		return language.French
	case LangES:
		return language.Spanish
	case LangIT:
		return language.Italian
	case LangNL:
		return language.Dutch
	case LangPTPT:
		return language.EuropeanPortuguese
	default:
		return language.English
	}
}
