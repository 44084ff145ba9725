// Package textnorm cleans raw game text before it is matched, cached or translated.
package textnorm

import (
	"regexp"
	"strings"
)

// Decorative glyphs the game puts around "cute" player names.
const (
	Heart  = '♥'
	Smiley = '☺'
)

var escapedHex = regexp.MustCompile(`\\x[0-9a-fA-F]{2}`)

// Normalize strips control characters, literal \xHH escapes and name
// decorations, then collapses whitespace. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\v' || r == '\f' || r == '\r':
			return ' '
		case r < 0x20, r >= 0x7F && r <= 0x9F:
			return -1
		case r == Heart || r == Smiley:
			return -1
		default:
			return r
		}
	}, text)

	// Removing one escape can expose another ("\x4\x411" -> "\x41").
	for {
		next := escapedHex.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	return strings.Join(strings.Fields(cleaned), " ")
}

// IsBlank reports whether text normalizes to nothing.
func IsBlank(text string) bool {
	return Normalize(text) == ""
}
