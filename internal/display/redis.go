package display

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/left4translate/internal/core"
)

// StreamAdder is the part of *redis.Client the sink needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisSink appends entries to a Redis stream so other tools (stream
// overlays, bots) can consume them.
type RedisSink struct {
	rdb    StreamAdder
	stream string
	maxLen int64
}

// NewRedisSink creates a stream sink. maxLen > 0 trims the stream
// approximately to that many entries.
func NewRedisSink(rdb StreamAdder, stream string, maxLen int64) *RedisSink {
	return &RedisSink{rdb: rdb, stream: stream, maxLen: maxLen}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Show adds the entry to the stream.
func (s *RedisSink) Show(ctx context.Context, e core.Entry) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: StreamValues(e),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// StreamValues flattens an entry into stream fields.
func StreamValues(e core.Entry) map[string]any {
	return map[string]any{
		"id":         e.ID,
		"source":     string(e.Source),
		"player":     e.Player,
		"original":   e.Original,
		"translated": e.Translated,
		"language":   e.SourceLanguage,
		"team_chat":  strconv.FormatBool(e.TeamChat),
		"team":       string(e.Team),
		"ts":         strconv.FormatInt(e.CreatedAt.UnixMilli(), 10),
	}
}
