package core

// Client is an overlay viewer as seen by the core layer.
type Client struct {
	ID       string
	Name     string
	TeamOnly bool
	Events   chan *Event
}

// NewClient constructs a client with an initialized event channel. Team-only
// clients receive team chat exclusively.
func NewClient(id, name string, teamOnly bool) *Client {
	if name == "" {
		name = id
	}
	return &Client{
		ID:       id,
		Name:     name,
		TeamOnly: teamOnly,
		Events:   make(chan *Event, 16),
	}
}

// Wants reports whether the entry matches the client's subscription.
func (c *Client) Wants(e Entry) bool {
	return !c.TeamOnly || e.TeamChat
}
