package commerce

import "testing"

func TestExtractVariantID(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"gid://shopify/ProductVariant/999", 999, false},
		{"gid://shopify/ProductVariant/42?checkout=1", 42, false},
		{"123456", 123456, false},
		{"  123456  ", 123456, false},
		{"", 0, true},
		{"gid://shopify/ProductVariant/", 0, true},
		{"not-a-number", 0, true},
		{"gid://shopify/ProductVariant/-5", 0, true},
	}

	for _, tc := range cases {
		got, err := ExtractVariantID(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestVariantGID(t *testing.T) {
	if got := VariantGID(999); got != "gid://shopify/ProductVariant/999" {
		t.Fatalf("unexpected gid: %s", got)
	}
}
