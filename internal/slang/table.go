// Package slang translates informal gaming vocabulary the generic
// translation backend does not know.
package slang

import "strings"

// Table is a read-only slang dictionary. The zero value is not usable; call Default or New.
type Table struct {
	phrases    map[string]string
	address    map[string]string
	restricted map[string]struct{}
	indicators []string
}

// Rule is a single phrase substitution.
type Rule struct {
	Pattern     string
	Replacement string
}

// Default returns the built-in table.
func Default() *Table {
	return New(nil)
}

// New returns the built-in table extended with extra rules. Extra rules
// override built-in ones with the same pattern.
func New(extra []Rule) *Table {
	t := &Table{
		phrases:    make(map[string]string, len(phrases)+len(extra)),
		address:    addressTerms,
		restricted: make(map[string]struct{}, len(restricted)),
		indicators: indicators,
	}
	for k, v := range phrases {
		t.phrases[k] = v
	}
	for _, r := range extra {
		p := strings.ToLower(strings.TrimSpace(r.Pattern))
		if p == "" {
			continue
		}
		t.phrases[p] = r.Replacement
	}
	for _, word := range restricted {
		t.restricted[word] = struct{}{}
	}
	return t
}

// Translate returns the slang translation of the whole input.
//
// Exact phrases win, which is the only way restricted words such as "si"
// match. Otherwise, when the last of two or
// more words is an address term, only that word is replaced and the rest
// keeps its original casing. Anything else returns (text, false): a slang word
// inside a longer unrelated phrase is not a match.
func (t *Table) Translate(text string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return text, false
	}

	if repl, ok := t.phrases[lower]; ok {
		return repl, true
	}

	words := strings.Fields(text)
	if len(words) >= 2 {
		last := strings.ToLower(words[len(words)-1])
		if repl, ok := t.address[last]; ok {
			name := strings.Join(words[:len(words)-1], " ")
			return name + " " + repl, true
		}
	}

	return text, false
}

// Lookup returns the translation of a single word for use inside a larger
// sentence. Restricted words never match here.
func (t *Table) Lookup(word string) (string, bool) {
	w := strings.ToLower(word)
	if _, ok := t.restricted[w]; ok {
		return "", false
	}
	repl, ok := t.phrases[w]
	return repl, ok
}

// Contains reports whether the whole input is slang.
func (t *Table) Contains(text string) bool {
	_, ok := t.Translate(text)
	return ok
}

// HasIndicator reports whether text contains a substring typical of
// SourceLanguage.
func (t *Table) HasIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, ind := range t.indicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// Patch replaces words the backend passed through untranslated. For each
// position where the translated word equals the source word (ignoring case)
// and the source word is slang, the slang gloss is substituted.
//
// This assumes the backend keeps word order and count, which does not hold
// for every language pair or for idioms. Mismatched positions are left alone.
func (t *Table) Patch(source, translated string) string {
	src := strings.Fields(source)
	out := strings.Fields(translated)

	n := min(len(src), len(out))
	changed := false
	for i := range n {
		if !strings.EqualFold(src[i], out[i]) {
			continue
		}
		if repl, ok := t.Lookup(src[i]); ok {
			out[i] = repl
			changed = true
		}
	}
	if !changed {
		return translated
	}
	return strings.Join(out, " ")
}
