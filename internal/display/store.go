package display

import (
	"context"
	"fmt"

	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/store"
)

// StoreSink records entries in the history database.
type StoreSink struct {
	store store.EntryStore
}

// NewStoreSink creates a store sink.
func NewStoreSink(st store.EntryStore) *StoreSink {
	return &StoreSink{store: st}
}

// Show saves the entry.
func (s *StoreSink) Show(ctx context.Context, e core.Entry) error {
	if err := s.store.SaveEntry(ctx, ToStore(e)); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// ToStore converts a core entry to its persisted form.
func ToStore(e core.Entry) *store.Entry {
	return &store.Entry{
		ID:             e.ID,
		Source:         string(e.Source),
		Player:         e.Player,
		Original:       e.Original,
		Translated:     e.Translated,
		SourceLanguage: e.SourceLanguage,
		TeamChat:       e.TeamChat,
		Team:           string(e.Team),
		CreatedAt:      e.CreatedAt,
	}
}

// FromStore converts a persisted entry back. Stored entries carry no expiry.
func FromStore(e *store.Entry) core.Entry {
	return core.Entry{
		ID:             e.ID,
		Source:         core.Source(e.Source),
		Player:         e.Player,
		Original:       e.Original,
		Translated:     e.Translated,
		SourceLanguage: e.SourceLanguage,
		TeamChat:       e.TeamChat,
		Team:           core.Team(e.Team),
		CreatedAt:      e.CreatedAt,
	}
}
