package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaxEntries is the number of lines kept on screen.
const DefaultMaxEntries = 5

// Hub fans translated entries out to overlay clients. All state is owned by
// the Run goroutine; the exported methods only send to it.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	publish    chan Entry
	recent     chan chan []Entry
	done       chan struct{}

	clients    map[*Client]struct{}
	history    []Entry
	maxEntries int
	now        func() time.Time
	log        *zerolog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithMaxEntries sets how many recent entries are replayed to new clients.
func WithMaxEntries(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.maxEntries = n
		}
	}
}

// WithHubClock replaces time.Now when checking expiry.
func WithHubClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

// WithHubLogger sets the logger.
func WithHubLogger(logger *zerolog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.log = logger
		}
	}
}

// NewHub creates a hub. Call Run before using it.
func NewHub(opts ...HubOption) *Hub {
	nop := zerolog.Nop()
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan Entry, 64),
		recent:     make(chan chan []Entry),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		log:        &nop,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes registrations and broadcasts until ctx is done. Client event
// channels are closed when the hub stops.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.Events)
		}
		h.clients = nil
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.sendHistory(c)
			h.log.Debug().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("client registered")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Events)
				h.log.Debug().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("client unregistered")
			}
		case e := <-h.publish:
			h.remember(e)
			h.broadcast(e)
		case reply := <-h.recent:
			reply <- h.visible()
		}
	}
}

// RegisterClient adds a client. It receives the entries still on screen
// first.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Events)
	}
}

// UnregisterClient removes a client and closes its event channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an entry for broadcast.
func (h *Hub) Publish(ctx context.Context, e Entry) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.publish <- e:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recent returns the entries still on screen, oldest first.
func (h *Hub) Recent(ctx context.Context) ([]Entry, error) {
	reply := make(chan []Entry, 1)
	select {
	case h.recent <- reply:
	case <-h.done:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case entries := <-reply:
		return entries, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) remember(e Entry) {
	h.history = append(h.history, e)
	if over := len(h.history) - h.maxEntries; over > 0 {
		h.history = append(h.history[:0], h.history[over:]...)
	}
}

func (h *Hub) visible() []Entry {
	now := h.now()
	kept := h.history[:0]
	for _, e := range h.history {
		if !e.Expired(now) {
			kept = append(kept, e)
		}
	}
	h.history = kept

	out := make([]Entry, len(kept))
	copy(out, kept)
	return out
}

func (h *Hub) sendHistory(c *Client) {
	entries := h.visible()
	filtered := entries[:0]
	for _, e := range entries {
		if c.Wants(e) {
			filtered = append(filtered, e)
		}
	}
	select {
	case c.Events <- &Event{Kind: EventHistory, Entries: filtered}:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("dropping history for slow client")
	}
}

func (h *Hub) broadcast(e Entry) {
	ev := &Event{Kind: EventEntry, Entry: e}
	for c := range h.clients {
		if !c.Wants(e) {
			continue
		}
		select {
		case c.Events <- ev:
		default:
			// Drop if slow consumer.
			h.log.Warn().Str("client_id", c.ID).Msg("dropping entry for slow client")
		}
	}
}
