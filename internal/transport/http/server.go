package http

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/auth"
	"github.com/vovakirdan/left4translate/internal/cache"
	"github.com/vovakirdan/left4translate/internal/config"
	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/store"
)

// CacheControl exposes translation cache usage.
type CacheControl interface {
	CacheStats() cache.Stats
	ClearCache()
}

// TranscriptHandler translates a speech transcript and shows it.
type TranscriptHandler interface {
	HandleTranscript(ctx context.Context, speaker, text, language string) (core.Entry, error)
}

// LineClassifier extracts chat messages from raw log lines.
type LineClassifier interface {
	Classify(line string) (core.Message, bool)
}

// Deps are the components served over HTTP. Nil fields disable the routes
// that need them, except Hub which is required.
type Deps struct {
	Hub         *core.Hub
	Auth        *auth.Service
	History     store.EntryStore
	Cache       CacheControl
	Transcripts TranscriptHandler
	Classifier  LineClassifier
}

// NewServer builds the overlay HTTP server.
func NewServer(deps Deps, cfg *config.DisplayConfig, logger *zerolog.Logger) *stdhttp.Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	wsHandler := NewWSHandler(deps.Hub, deps.Auth, cfg, logger)
	router.GET("/ws", gin.WrapH(wsHandler))

	api := NewAPIHandlers(deps, logger)
	apiGroup := router.Group("/api")
	if cfg.JWTRequired {
		apiGroup.Use(AuthMiddleware(deps.Auth, logger))
	}
	apiGroup.GET("/messages", api.Messages)
	if deps.Cache != nil {
		apiGroup.GET("/cache", api.CacheStats)
		apiGroup.DELETE("/cache", api.ClearCache)
	}
	if deps.Classifier != nil {
		apiGroup.POST("/classify", api.Classify)
	}
	if deps.Transcripts != nil {
		apiGroup.POST("/transcripts",
			RateLimitMiddleware(newTranscriptLimiter(cfg.TranscriptsPerMinute), logger),
			api.Transcript,
		)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
