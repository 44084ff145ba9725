package http

import (
	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/proto"
)

func inboundReply(inbound proto.Inbound) proto.Outbound {
	switch inbound.Type {
	case proto.InboundTypePing:
		return proto.Outbound{Type: proto.OutboundTypePong}
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: "invalid_message", Msg: "unknown message type"},
		}
	}
}

func entryPayload(e core.Entry) proto.Entry {
	p := proto.Entry{
		ID:         e.ID,
		Source:     string(e.Source),
		Player:     e.Player,
		Original:   e.Original,
		Translated: e.Translated,
		Language:   e.SourceLanguage,
		TeamChat:   e.TeamChat,
		Team:       string(e.Team),
		TS:         e.CreatedAt.UnixMilli(),
	}
	if !e.ExpiresAt.IsZero() {
		p.ExpiresAt = e.ExpiresAt.UnixMilli()
	}
	return p
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventEntry:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameEntry,
			Data:  entryPayload(event.Entry),
		}
	case core.EventHistory:
		entries := make([]proto.Entry, 0, len(event.Entries))
		for _, e := range event.Entries {
			entries = append(entries, entryPayload(e))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameHistory,
			Data:  proto.EventHistory{Entries: entries},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
