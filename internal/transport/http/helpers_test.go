package http

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/auth"
	"github.com/vovakirdan/left4translate/internal/cache"
	"github.com/vovakirdan/left4translate/internal/config"
	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/store/sqlite"
)

const testSecret = "testsecret"

func testDisplayConfig() config.DisplayConfig {
	cfg := config.Default().Display
	cfg.Addr = ":0"
	cfg.JWTSecret = testSecret
	return cfg
}

func testAuthService() *auth.Service {
	return auth.NewService(&auth.JWTConfig{
		Secret:   []byte(testSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T, opts ...core.HubOption) *core.Hub {
	t.Helper()

	hub := core.NewHub(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func disabledLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

func createTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

type fakeCache struct {
	mu      sync.Mutex
	stats   cache.Stats
	cleared int
}

func (f *fakeCache) CacheStats() cache.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *fakeCache) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.stats.Size = 0
}

type transcriptCall struct {
	speaker, text, language string
}

type fakeTranscripts struct {
	mu    sync.Mutex
	calls []transcriptCall
	err   error
}

func (f *fakeTranscripts) HandleTranscript(_ context.Context, speaker, text, language string) (core.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, transcriptCall{speaker, text, language})
	if f.err != nil {
		return core.Entry{}, f.err
	}
	return core.Entry{
		ID:             "t-1",
		Source:         core.SourceVoice,
		Player:         speaker,
		Original:       text,
		Translated:     "[en] " + text,
		SourceLanguage: language,
		CreatedAt:      time.UnixMilli(1700000000000),
	}, nil
}
