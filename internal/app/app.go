package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/left4translate/internal/config"
	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/display"
	"github.com/vovakirdan/left4translate/internal/store"
	"github.com/vovakirdan/left4translate/internal/store/sqlite"
	"github.com/vovakirdan/left4translate/internal/tail"
	"github.com/vovakirdan/left4translate/internal/translate"
	transporthttp "github.com/vovakirdan/left4translate/internal/transport/http"
)

// Mode selects which inputs are translated.
type Mode string

const (
	ModeChat  Mode = "chat"
	ModeVoice Mode = "voice"
	ModeBoth  Mode = "both"
)

// ParseMode validates a mode name. Empty selects ModeBoth.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeBoth:
		return ModeBoth, nil
	case ModeChat, ModeVoice:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want chat, voice or both)", s)
	}
}

func (m Mode) chat() bool  { return m == ModeChat || m == ModeBoth }
func (m Mode) voice() bool { return m == ModeVoice || m == ModeBoth }

const retentionSweep = time.Hour

// App wires the log tailer, translation pipeline, sinks and overlay server.
type App struct {
	mode            Mode
	pipeline        *Pipeline
	translator      *translate.Service
	hub             *core.Hub
	tailer          *tail.Tailer
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	retention       time.Duration
	redis           *redis.Client
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, mode Mode, logger *zerolog.Logger) (*App, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.RequireRemote(); err != nil {
		return nil, err
	}
	if mode.chat() {
		if err := cfg.RequireLog(); err != nil {
			return nil, err
		}
	}
	if mode == ModeVoice && cfg.Display.Addr == "" {
		return nil, errors.New("voice mode needs display.addr to receive transcripts")
	}

	a := &App{
		mode:            mode,
		shutdownTimeout: cfg.Display.ShutdownTimeout,
		retention:       cfg.Store.Retention,
		log:             logger,
	}

	svc, err := NewTranslationService(cfg.Translation, logger)
	if err != nil {
		return nil, err
	}
	a.translator = svc

	cls, err := NewClassifier(cfg.Game, logger)
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}

	a.hub = core.NewHub(
		core.WithMaxEntries(cfg.Display.MaxMessages),
		core.WithHubLogger(logger),
	)

	sinks := display.NewMulti(logger,
		display.Named{Name: "log", Sink: display.NewLogSink(logger)},
		display.Named{Name: "overlay", Sink: display.NewHubSink(a.hub)},
	)

	if cfg.Store.DatabasePath != "" {
		st, err := sqlite.New(cfg.Store.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
		a.store = st
		sinks.Add("store", display.NewStoreSink(st))
		logger.Info().Str("db_path", cfg.Store.DatabasePath).Msg("history database initialized")
	}

	if cfg.Redis.URL != "" {
		rdb, err := display.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			a.cleanup()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.redis = rdb
		sinks.Add("redis", display.NewRedisSink(rdb, cfg.Redis.Stream, cfg.Redis.MaxLen))
		logger.Info().Str("stream", cfg.Redis.Stream).Msg("redis stream sink enabled")
	}

	a.pipeline = NewPipeline(cls, svc, sinks,
		WithTTL(cfg.Display.MessageTimeout),
		WithWorkers(cfg.Translation.Workers),
		WithPipelineLogger(logger),
	)

	if mode.chat() {
		a.tailer = tail.New(cfg.Game.LogPath,
			tail.WithPollInterval(cfg.Game.PollInterval),
			tail.FromStart(cfg.Game.FromStart),
			tail.WithLogger(logger),
		)
	}

	if cfg.Display.Addr != "" {
		deps := transporthttp.Deps{
			Hub:        a.hub,
			Auth:       NewAuthService(cfg.Display),
			Cache:      svc,
			Classifier: cls,
		}
		if a.store != nil {
			deps.History = a.store
		}
		if mode.voice() {
			deps.Transcripts = a.pipeline
		}
		a.server = transporthttp.NewServer(deps, &cfg.Display, logger)
	}

	return a, nil
}

// Pipeline returns the translation pipeline.
func (a *App) Pipeline() *Pipeline {
	return a.pipeline
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails.
func (a *App) Run(ctx context.Context) error {
	defer a.cleanup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.hub.Run(gctx)
		return nil
	})

	if a.tailer != nil {
		g.Go(func() error {
			defer a.pipeline.Wait()
			if err := a.tailer.Run(gctx, func(line string) {
				a.pipeline.Submit(gctx, line)
			}); err != nil {
				return fmt.Errorf("tail game log: %w", err)
			}
			return nil
		})
	}

	if a.server != nil {
		g.Go(func() error {
			a.log.Info().Str("addr", a.server.Addr).Msg("overlay server listening")
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				return fmt.Errorf("overlay server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
			defer cancel()

			a.log.Info().Msg("shutting down overlay server")
			return a.server.Shutdown(shutdownCtx)
		})
	}

	if a.store != nil && a.retention > 0 {
		g.Go(func() error {
			a.sweepHistory(gctx)
			return nil
		})
	}

	a.log.Info().
		Str("mode", string(a.mode)).
		Str("target", a.translator.Target()).
		Msg("left4translate running")

	return g.Wait()
}

func (a *App) sweepHistory(ctx context.Context) {
	ticker := time.NewTicker(retentionSweep)
	defer ticker.Stop()

	for {
		cutoff := time.Now().Add(-a.retention)
		if n, err := a.store.DeleteBefore(ctx, cutoff); err != nil {
			if ctx.Err() == nil {
				a.log.Warn().Err(err).Msg("failed to prune history")
			}
		} else if n > 0 {
			a.log.Info().Int64("deleted", n).Time("before", cutoff).Msg("pruned history")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}
