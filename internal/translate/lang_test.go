package translate

import "testing"

func TestBaseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"es", "es"},
		{"es-Latn", "es"},
		{"pt_BR", "pt"},
		{"EN-us", "en"},
		{" fr ", "fr"},
		{"zh-Hans-CN", "zh"},
		{"und", "und"},
		{"und-Latn", "und"},
		{"", ""},
		{"xx-yy", "xx"},
		{"tl", "tl"},
		{"iw", "iw"},
		{"jw", "jw"},
		{"zh-TW", "zh"},
	}
	for _, tt := range tests {
		if got := BaseLanguage(tt.in); got != tt.want {
			t.Errorf("BaseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameLanguage(t *testing.T) {
	tests := []struct {
		from, target string
		want         bool
	}{
		{"en", "en", true},
		{"en-US", "en", true},
		{"es", "es-MX", true},
		{"pt_BR", "pt-br", true},
		{"zh-CN", "zh-TW", false},
		{"zh-TW", "zh-TW", true},
		{"iw", "he", false},
		{"es", "en", false},
		{"", "en", false},
	}
	for _, tt := range tests {
		if got := SameLanguage(tt.from, tt.target); got != tt.want {
			t.Errorf("SameLanguage(%q, %q) = %v, want %v", tt.from, tt.target, got, tt.want)
		}
	}
}

func TestValidLanguage(t *testing.T) {
	for _, code := range []string{"en", "zh-TW", "pt_BR", "tl", "iw", "es-419"} {
		if err := ValidLanguage(code); err != nil {
			t.Errorf("ValidLanguage(%q) = %v, want nil", code, err)
		}
	}
	for _, code := range []string{"", "english please", "e"} {
		if err := ValidLanguage(code); err == nil {
			t.Errorf("ValidLanguage(%q) = nil, want error", code)
		}
	}
}
