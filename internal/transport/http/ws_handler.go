package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/auth"
	"github.com/vovakirdan/left4translate/internal/config"
	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/proto"
	"github.com/vovakirdan/left4translate/internal/ratelimit"
)

// inboundPerMinute bounds pings and other client chatter per connection.
const inboundPerMinute = 120

// WSHandler upgrades HTTP connections and feeds them translated entries.
type WSHandler struct {
	hub      *core.Hub
	auth     *auth.Service
	required bool
	maxBytes int64
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, authService *auth.Service, cfg *config.DisplayConfig, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:      hub,
		auth:     authService,
		required: cfg.JWTRequired,
		maxBytes: cfg.MaxMessageBytes,
		log:      logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	client, ok := h.authorize(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	if h.maxBytes > 0 {
		conn.SetReadLimit(h.maxBytes)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventNameWelcome,
		Data: proto.EventWelcome{
			ClientID: client.ID,
			Viewer:   client.Name,
			TeamOnly: client.TeamOnly,
			Protocol: proto.ProtocolVersion,
		},
	}); err != nil {
		h.log.Warn().Err(err).Str("client_id", client.ID).Msg("write welcome")
		return
	}

	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)
	h.log.Info().Str("client_id", client.ID).Str("viewer", client.Name).Bool("team_only", client.TeamOnly).Msg("overlay client connected")

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel()
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// authorize resolves the viewer for a connection. A presented token must be
// valid even when tokens are optional.
func (h *WSHandler) authorize(w stdhttp.ResponseWriter, r *stdhttp.Request) (*core.Client, bool) {
	id := uuid.NewString()
	query := r.URL.Query()
	teamOnly, _ := strconv.ParseBool(query.Get("team_only"))

	token, hasToken := requestToken(r)
	if !hasToken {
		if h.required {
			h.log.Debug().Msg("ws connection without token")
			stdhttp.Error(w, "missing token", stdhttp.StatusUnauthorized)
			return nil, false
		}
		return core.NewClient(id, query.Get("name"), teamOnly), true
	}

	viewer, err := h.auth.Authenticate(token)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws token rejected")
		stdhttp.Error(w, "invalid token", stdhttp.StatusUnauthorized)
		return nil, false
	}
	return core.NewClient(id, viewer.Name, viewer.TeamOnly || teamOnly), true
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := ratelimit.New(inboundPerMinute)
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("read ws inbound")
			return err
		}

		reply := inboundReply(inbound)
		if !limiter.Acquire() {
			reply = proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: core.ErrCodeRateLimited, Msg: "too many messages"},
			}
		}
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
