package display

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/core"
)

// LogSink writes entries to the application log, the same way the console
// version of the tool prints them.
type LogSink struct {
	log *zerolog.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *zerolog.Logger) *LogSink {
	return &LogSink{log: logger}
}

// Show logs the entry at info level.
func (s *LogSink) Show(_ context.Context, e core.Entry) error {
	ev := s.log.Info().
		Str("source", string(e.Source)).
		Str("player", e.Player).
		Str("text", e.Translated)
	if e.WasTranslated() {
		ev = ev.Str("original", e.Original).Str("language", e.SourceLanguage)
	}
	if e.TeamChat {
		ev = ev.Str("team", string(e.Team))
	}
	ev.Msg("message")
	return nil
}
