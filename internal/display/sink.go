// Package display delivers translated entries to wherever they are shown.
package display

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/core"
)

// Sink shows a translated entry.
type Sink interface {
	Show(ctx context.Context, e core.Entry) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e core.Entry) error

// Show calls f.
func (f SinkFunc) Show(ctx context.Context, e core.Entry) error {
	return f(ctx, e)
}

// Named attaches a name used in logs.
type Named struct {
	Name string
	Sink Sink
}

// Multi fans an entry out to several sinks. Failures are logged and never
// returned, so one broken sink does not hide the entry from the others.
type Multi struct {
	sinks []Named
	log   *zerolog.Logger
}

// NewMulti builds a fan-out sink.
func NewMulti(logger *zerolog.Logger, sinks ...Named) *Multi {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Multi{sinks: sinks, log: logger}
}

// Add appends a sink.
func (m *Multi) Add(name string, s Sink) {
	m.sinks = append(m.sinks, Named{Name: name, Sink: s})
}

// Len returns the number of sinks.
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Show delivers e to every sink in order.
func (m *Multi) Show(ctx context.Context, e core.Entry) error {
	for _, s := range m.sinks {
		if err := s.Sink.Show(ctx, e); err != nil {
			m.log.Warn().
				Err(err).
				Str("sink", s.Name).
				Str("entry_id", e.ID).
				Msg("display sink failed")
		}
	}
	return nil
}
