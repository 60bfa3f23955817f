package notify

import "testing"

func TestResolveLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want Language
	}{
		{"en", LangEN},
		{"de", LangDE},
		{"de-AT", LangDE},
		{"fr", LangFR},
		{"fr-CA", LangFR},
		{"nl", LangNL},
		{"es-MX", LangES},
		{"it", LangIT},

		// the Portuguese dialect special case
		{"pt-PT", LangPTPT},
		{"pt", LangPTPT},
		{"pt-BR", LangEN},

		// normalization
		{"DE", LangDE},
		{"pt_PT", LangPTPT},
		{"EN-us", LangEN},

		// unknowns and empties fall back to the default
		{"", LangEN},
		{"zz", LangEN},
		{"ja-JP", LangEN},
	}

	for _, tc := range cases {
		if got := ResolveLanguage(tc.in); got != tc.want {
			t.Errorf("ResolveLanguage(%q): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}
