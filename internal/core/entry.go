package core

import "time"

// Source tells where a translated line came from.
type Source string

const (
	// SourceChat is a line read from the game log.
	SourceChat Source = "chat"
	// SourceVoice is a speech transcript posted by an external recognizer.
	SourceVoice Source = "voice"
)

// Entry is a translated line ready for display.
type Entry struct {
	ID             string
	Source         Source
	Player         string
	Original       string
	Translated     string
	SourceLanguage string
	TeamChat       bool
	Team           Team
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// Expired reports whether the entry should no longer be shown at now.
// Entries without an expiry never expire.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// WasTranslated reports whether the displayed text differs from the original.
func (e Entry) WasTranslated() bool {
	return e.Translated != "" && e.Translated != e.Original
}
