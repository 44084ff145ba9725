// Package translate composes normalization, caching, slang handling, language
// detection and a remote backend into a single Translate call.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/cache"
	"github.com/vovakirdan/left4translate/internal/ratelimit"
	"github.com/vovakirdan/left4translate/internal/slang"
	"github.com/vovakirdan/left4translate/internal/textnorm"
)

// Config holds orchestration settings.
type Config struct {
	TargetLanguage     string
	CacheSize          int
	RateLimitPerMinute int
	RetryAttempts      int
	RetryBackoff       time.Duration
	AcquireWait        time.Duration
}

// DefaultConfig mirrors the defaults of the config file.
func DefaultConfig() Config {
	return Config{
		TargetLanguage:     "en",
		CacheSize:          cache.DefaultCapacity,
		RateLimitPerMinute: 100,
		RetryAttempts:      3,
		RetryBackoff:       time.Second,
		AcquireWait:        100 * time.Millisecond,
	}
}

// LocalDetector is implemented by detectors that run in-process. Their calls
// bypass the rate limiter and retry policy.
type LocalDetector interface {
	Detector
	Local() bool
}

// Service translates chat text. It is safe for concurrent use; the cache and
// limiter are the only shared state. Two concurrent misses on the same key may
// both reach the backend.
type Service struct {
	cfg        Config
	target     string
	translator Translator
	detector   Detector
	cache      *cache.TranslationCache
	limiter    *ratelimit.Limiter
	slang      *slang.Table
	sleep      func(context.Context, time.Duration) error
	log        *zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDetector replaces the backend's detector, e.g. with a local model.
func WithDetector(d Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithCache supplies a pre-built cache.
func WithCache(c *cache.TranslationCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLimiter supplies a pre-built rate limiter.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithSlang replaces the slang table.
func WithSlang(t *slang.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.slang = t
		}
	}
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(s *Service) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New builds a Service around backend.
func New(cfg Config, backend Backend, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, errors.New("translate: backend is required")
	}
	def := DefaultConfig()
	cfg.TargetLanguage = strings.TrimSpace(cfg.TargetLanguage)
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = def.TargetLanguage
	}
	if err := ValidLanguage(cfg.TargetLanguage); err != nil {
		return nil, fmt.Errorf("translate: target: %w", err)
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	if cfg.AcquireWait <= 0 {
		cfg.AcquireWait = def.AcquireWait
	}

	nop := zerolog.Nop()
	s := &Service{
		cfg:        cfg,
		target:     cfg.TargetLanguage,
		translator: backend,
		detector:   backend,
		slang:      slang.Default(),
		sleep:      sleepContext,
		log:        &nop,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		c, err := cache.New(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("translate: %w", err)
		}
		s.cache = c
	}
	if s.limiter == nil {
		s.limiter = ratelimit.New(cfg.RateLimitPerMinute)
	}
	return s, nil
}

// Target returns the configured target language.
func (s *Service) Target() string {
	return s.target
}

// Translate returns text in the target language. An empty source triggers
// detection. Text already in the target language, text too short to
// translate, and text the backend cannot identify come back unchanged.
// Only backend failures after the retry budget is spent are returned.
func (s *Service) Translate(ctx context.Context, text, source string) (string, error) {
	normalized := textnorm.Normalize(text)

	srcBase := LangAuto
	if source != "" {
		srcBase = BaseLanguage(source)
	}
	key := cache.Key(srcBase, normalized)

	if v, ok := s.cache.Get(key); ok {
		s.log.Debug().Str("key", key).Msg("translation cache hit")
		return v, nil
	}

	if utf8.RuneCountInString(normalized) <= 1 {
		s.log.Debug().Str("text", text).Msg("skipping translation for short text")
		return text, nil
	}

	if v, ok := s.slang.Translate(normalized); ok {
		s.log.Debug().Str("text", normalized).Str("translated", v).Msg("used slang translation")
		s.cache.Put(key, v)
		return v, nil
	}

	from, fromTag := srcBase, source
	if source == "" {
		det, err := s.Detect(ctx, normalized)
		if err != nil {
			if PassThrough(err) {
				s.log.Debug().Err(err).Str("text", normalized).Msg("language undetectable, passing through")
				return text, nil
			}
			return "", err
		}
		fromTag = det.Language
		from = BaseLanguage(det.Language)
		if from == LangUndefined || from == "" {
			s.log.Debug().Str("text", normalized).Msg("language undefined, passing through")
			return text, nil
		}
	}
	if SameLanguage(fromTag, s.target) {
		s.log.Debug().Str("language", fromTag).Msg("already in target language")
		return text, nil
	}

	translated, err := retry(ctx, s, "translate", func(ctx context.Context) (string, error) {
		return s.translator.Translate(ctx, normalized, s.target, from)
	})
	if err != nil {
		if PassThrough(err) {
			s.log.Debug().Err(err).Str("text", normalized).Msg("backend rejected text, passing through")
			return text, nil
		}
		return "", err
	}

	final := s.slang.Patch(normalized, translated)
	s.cache.Put(key, final)
	s.log.Debug().
		Str("source", from).
		Str("text", normalized).
		Str("translated", final).
		Msg("translated text")
	return final, nil
}

// DetectLanguage returns the language code of text.
func (s *Service) DetectLanguage(ctx context.Context, text string) (string, error) {
	det, err := s.Detect(ctx, textnorm.Normalize(text))
	if err != nil {
		return "", err
	}
	return det.Language, nil
}

// Detect identifies the language of already normalized text. Whole-phrase
// slang and indicator words short-circuit to the slang language with full
// confidence; everything else goes to the detector.
func (s *Service) Detect(ctx context.Context, text string) (Detection, error) {
	if s.slang.Contains(text) || s.slang.HasIndicator(text) {
		return Detection{Language: slang.SourceLanguage, Confidence: 1}, nil
	}

	var (
		det Detection
		err error
	)
	if local, ok := s.detector.(LocalDetector); ok && local.Local() {
		det, err = local.Detect(ctx, text)
	} else {
		det, err = retry(ctx, s, "detect", func(ctx context.Context) (Detection, error) {
			return s.detector.Detect(ctx, text)
		})
	}
	if err != nil {
		return Detection{}, err
	}
	if det.Language == "" {
		det.Language = LangUndefined
	}
	s.log.Debug().
		Str("language", det.Language).
		Float64("confidence", det.Confidence).
		Msg("detected language")
	return det, nil
}

// CacheStats reports cache usage.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache drops every cached translation.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// retry runs call under the rate limiter. Waiting for a token does not use
// up an attempt; a retryable failure does and is followed by the backoff.
func retry[T any](ctx context.Context, s *Service, op string, call func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= s.cfg.RetryAttempts; attempt++ {
		if err := s.acquire(ctx); err != nil {
			return zero, err
		}

		v, err := call(ctx)
		if err == nil {
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}

		lastErr = err
		s.log.Warn().
			Err(err).
			Str("op", op).
			Int("attempt", attempt).
			Int("max_attempts", s.cfg.RetryAttempts).
			Msg("backend call failed")

		if attempt < s.cfg.RetryAttempts {
			if err := s.sleep(ctx, s.cfg.RetryBackoff); err != nil {
				return zero, err
			}
		}
	}
	return zero, &Error{Kind: KindExhausted, Op: op, Attempts: s.cfg.RetryAttempts, Err: lastErr}
}

func (s *Service) acquire(ctx context.Context) error {
	for !s.limiter.Acquire() {
		s.log.Debug().Float64("tokens", s.limiter.Tokens()).Msg("rate limited, waiting for token")
		if err := s.sleep(ctx, s.cfg.AcquireWait); err != nil {
			return fmt.Errorf("wait for rate limit: %w", err)
		}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
