package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	// LangAuto keys cache entries whose source language was not given.
	LangAuto = "auto"
	// LangUndefined is the BCP 47 code for an undetermined language.
	LangUndefined = "und"
)

// BaseLanguage strips script and region subtags: "es-Latn" -> "es",
// "pt_BR" -> "pt". The primary subtag is kept as given, so legacy codes the
// backend still uses ("iw", "tl", "jw") survive.
func BaseLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "_", "-")
	if i := strings.IndexByte(code, '-'); i >= 0 {
		code = code[:i]
	}
	return code
}

// SameLanguage reports whether text in language from needs no translation
// into target. Base codes must match; when both sides name a region or
// script, those must match too, so "zh-CN" still goes to "zh-TW".
func SameLanguage(from, target string) bool {
	fb, tb := BaseLanguage(from), BaseLanguage(target)
	if fb == "" || fb != tb {
		return false
	}
	fs, ts := subtags(from), subtags(target)
	return fs == "" || ts == "" || fs == ts
}

func subtags(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "_", "-")
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return code[i+1:]
	}
	return ""
}

// ValidLanguage reports an error unless code is a well-formed BCP 47 tag
// with a known primary language.
func ValidLanguage(code string) error {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return fmt.Errorf("empty language code")
	}
	if _, err := language.Parse(code); err != nil {
		return fmt.Errorf("language %q: %w", code, err)
	}
	return nil
}
