package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/left4translate/internal/proto"
)

type inboundEnvelope struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func newWatchCmd() *cobra.Command {
	var (
		addr     string
		token    string
		teamOnly bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Connect to a running overlay and print entries as they arrive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			u, err := url.Parse(addr)
			if err != nil {
				return fmt.Errorf("parse addr: %w", err)
			}
			q := u.Query()
			if teamOnly {
				q.Set("team_only", "true")
			}
			u.RawQuery = q.Encode()

			opts := &websocket.DialOptions{}
			if token != "" {
				opts.HTTPHeader = http.Header{"Authorization": []string{"Bearer " + token}}
			}

			conn, _, err := websocket.Dial(ctx, u.String(), opts)
			if err != nil {
				return fmt.Errorf("dial: %w", err)
			}
			defer conn.Close(websocket.StatusNormalClosure, "bye")

			return watchOverlay(ctx, conn, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", "ws://127.0.0.1:8765/ws", "overlay websocket address")
	flags.StringVar(&token, "token", "", "viewer token")
	flags.BoolVar(&teamOnly, "team-only", false, "show team chat only")
	flags.DurationVar(&timeout, "timeout", 0, "stop after this long (0 runs until interrupted)")
	return cmd
}

func watchOverlay(ctx context.Context, conn *websocket.Conn, out io.Writer) error {
	for {
		var msg inboundEnvelope
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		if msg.Error != nil {
			fmt.Fprintf(out, "error: %s: %s\n", msg.Error.Code, msg.Error.Msg)
			continue
		}

		switch msg.Event {
		case proto.EventNameWelcome:
			var w proto.EventWelcome
			if err := json.Unmarshal(msg.Data, &w); err == nil {
				fmt.Fprintf(out, "connected as %s (client %s, team_only=%t)\n", w.Viewer, w.ClientID, w.TeamOnly)
			}
		case proto.EventNameHistory:
			var h proto.EventHistory
			if err := json.Unmarshal(msg.Data, &h); err != nil {
				return fmt.Errorf("unmarshal history: %w", err)
			}
			for _, e := range h.Entries {
				printEntry(out, e)
			}
		case proto.EventNameEntry:
			var e proto.Entry
			if err := json.Unmarshal(msg.Data, &e); err != nil {
				return fmt.Errorf("unmarshal entry: %w", err)
			}
			printEntry(out, e)
		}
	}
}

func printEntry(out io.Writer, e proto.Entry) {
	prefix := ""
	if e.TeamChat {
		prefix = "(" + e.Team + ") "
	}
	if e.Translated != e.Original {
		fmt.Fprintf(out, "%s%s: %s  [%s: %s]\n", prefix, e.Player, e.Translated, e.Language, e.Original)
		return
	}
	fmt.Fprintf(out, "%s%s: %s\n", prefix, e.Player, e.Original)
}
