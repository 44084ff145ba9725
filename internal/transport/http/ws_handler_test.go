package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/left4translate/internal/config"
	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/proto"
)

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func startTestServer(t *testing.T, hub *core.Hub, cfg config.DisplayConfig) *httptest.Server {
	t.Helper()

	server := NewServer(Deps{Hub: hub, Auth: testAuthService()}, &cfg, disabledLogger())
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server, query string) string {
	u := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	if query != "" {
		u += "?" + query
	}
	return u
}

func readOutbound(ctx context.Context, t *testing.T, conn *websocket.Conn) rawOutbound {
	t.Helper()

	var out rawOutbound
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

// dialOverlay connects and consumes the welcome and history events.
func dialOverlay(ctx context.Context, t *testing.T, url string) (*websocket.Conn, proto.EventWelcome, proto.EventHistory) {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	welcomeOut := readOutbound(ctx, t, conn)
	if welcomeOut.Event != proto.EventNameWelcome {
		t.Fatalf("expected welcome, got %+v", welcomeOut)
	}
	var welcome proto.EventWelcome
	if err := json.Unmarshal(welcomeOut.Data, &welcome); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}

	historyOut := readOutbound(ctx, t, conn)
	if historyOut.Event != proto.EventNameHistory {
		t.Fatalf("expected history, got %+v", historyOut)
	}
	var history proto.EventHistory
	if err := json.Unmarshal(historyOut.Data, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	return conn, welcome, history
}

// waitForHistory blocks until the hub has applied n queued publishes.
func waitForHistory(ctx context.Context, t *testing.T, hub *core.Hub, n int) {
	t.Helper()

	for {
		entries, err := hub.Recent(ctx)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(entries) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t, startHub(t), testDisplayConfig())

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketReceivesEntries(t *testing.T) {
	hub := startHub(t)
	ts := startTestServer(t, hub, testDisplayConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, welcome, history := dialOverlay(ctx, t, wsURL(ts, "name=stream"))
	if welcome.Viewer != "stream" || welcome.ClientID == "" || welcome.Protocol != proto.ProtocolVersion {
		t.Fatalf("unexpected welcome: %+v", welcome)
	}
	if len(history.Entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history.Entries))
	}

	entry := core.Entry{
		ID:             "e-1",
		Source:         core.SourceChat,
		Player:         "Ellis",
		Original:       "hola amigo",
		Translated:     "hello friend",
		SourceLanguage: "es",
		CreatedAt:      time.UnixMilli(1700000000000),
	}
	if err := hub.Publish(ctx, entry); err != nil {
		t.Fatalf("publish: %v", err)
	}

	out := readOutbound(ctx, t, conn)
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventNameEntry {
		t.Fatalf("unexpected outbound: %+v", out)
	}
	var got proto.Entry
	if err := json.Unmarshal(out.Data, &got); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if got.ID != "e-1" || got.Player != "Ellis" || got.Translated != "hello friend" || got.Language != "es" {
		t.Fatalf("unexpected entry payload: %+v", got)
	}
	if got.TS != 1700000000000 || got.ExpiresAt != 0 {
		t.Fatalf("unexpected timestamps: %+v", got)
	}
}

func TestWebSocketReplaysHistory(t *testing.T) {
	hub := startHub(t)
	ts := startTestServer(t, hub, testDisplayConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, id := range []string{"a", "b"} {
		if err := hub.Publish(ctx, core.Entry{ID: id, Original: id, Translated: id}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	waitForHistory(ctx, t, hub, 2)

	_, _, history := dialOverlay(ctx, t, wsURL(ts, ""))
	if len(history.Entries) != 2 || history.Entries[0].ID != "a" || history.Entries[1].ID != "b" {
		t.Fatalf("unexpected history: %+v", history.Entries)
	}
}

func TestWebSocketTeamOnlyFilter(t *testing.T) {
	hub := startHub(t)
	ts := startTestServer(t, hub, testDisplayConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, welcome, _ := dialOverlay(ctx, t, wsURL(ts, "team_only=true"))
	if !welcome.TeamOnly {
		t.Fatalf("expected team-only subscription")
	}

	if err := hub.Publish(ctx, core.Entry{ID: "public", Original: "gg"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := hub.Publish(ctx, core.Entry{ID: "team", Original: "rush", TeamChat: true, Team: core.TeamSurvivor}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	out := readOutbound(ctx, t, conn)
	var got proto.Entry
	if err := json.Unmarshal(out.Data, &got); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if got.ID != "team" || !got.TeamChat || got.Team != "Survivor" {
		t.Fatalf("expected only the team entry, got %+v", got)
	}
}

func TestWebSocketPingAndUnknown(t *testing.T) {
	ts := startTestServer(t, startHub(t), testDisplayConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, _ := dialOverlay(ctx, t, wsURL(ts, ""))

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if out := readOutbound(ctx, t, conn); out.Type != proto.OutboundTypePong {
		t.Fatalf("expected pong, got %+v", out)
	}

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "join"}); err != nil {
		t.Fatalf("write unknown: %v", err)
	}
	out := readOutbound(ctx, t, conn)
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != "invalid_message" {
		t.Fatalf("expected invalid_message error, got %+v", out)
	}
}

func TestOutboundFromErrorEvent(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: core.NewError(core.ErrCodeTranslation, "backend down"),
	})
	if out.Type != proto.OutboundTypeError || out.Error.Code != core.ErrCodeTranslation || out.Error.Msg != "backend down" {
		t.Fatalf("unexpected outbound: %+v", out)
	}

	out = outboundFromEvent(&core.Event{Kind: core.EventError})
	if out.Error == nil || out.Error.Code != "unknown" {
		t.Fatalf("expected unknown error, got %+v", out)
	}
}
