package display

import (
	"context"

	"github.com/vovakirdan/left4translate/internal/core"
)

// Publisher is implemented by core.Hub.
type Publisher interface {
	Publish(ctx context.Context, e core.Entry) error
}

// HubSink pushes entries to connected overlay clients.
type HubSink struct {
	hub Publisher
}

// NewHubSink creates a hub sink.
func NewHubSink(hub Publisher) *HubSink {
	return &HubSink{hub: hub}
}

// Show publishes the entry.
func (s *HubSink) Show(ctx context.Context, e core.Entry) error {
	return s.hub.Publish(ctx, e)
}
