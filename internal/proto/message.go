package proto

import "encoding/json"

// Inbound is the envelope for messages coming from an overlay client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	ProtocolVersion = 1

	InboundTypePing = "ping"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
	OutboundTypePong  = "pong"

	EventNameEntry   = "entry"
	EventNameHistory = "history"
	EventNameWelcome = "welcome"
)

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Entry is a translated line as shown on the overlay.
type Entry struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Player     string `json:"player"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Language   string `json:"language,omitempty"`
	TeamChat   bool   `json:"team_chat"`
	Team       string `json:"team,omitempty"`
	TS         int64  `json:"ts"`
	ExpiresAt  int64  `json:"expires_at,omitempty"`
}

// EventHistory carries the entries still on screen.
type EventHistory struct {
	Entries []Entry `json:"entries"`
}

// EventWelcome is sent once after the connection is accepted.
type EventWelcome struct {
	ClientID string `json:"client_id"`
	Viewer   string `json:"viewer"`
	TeamOnly bool   `json:"team_only"`
	Protocol int    `json:"protocol"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
