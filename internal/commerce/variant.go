package commerce

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractVariantID extracts the numeric platform id from a variant
// reference. Accepts a plain numeric id or a GID-style reference such as
// "gid://shopify/ProductVariant/42", whose numeric suffix is the id.
func ExtractVariantID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty variant id")
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	// GID references may carry query parameters after the id.
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("variant id %q has no numeric suffix", raw)
	}
	return id, nil
}

// VariantGID builds the GID-style reference the GraphQL API expects.
func VariantGID(id int64) string {
	return fmt.Sprintf("gid://shopify/ProductVariant/%d", id)
}
