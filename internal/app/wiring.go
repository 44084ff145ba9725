package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/auth"
	"github.com/vovakirdan/left4translate/internal/classifier"
	"github.com/vovakirdan/left4translate/internal/config"
	"github.com/vovakirdan/left4translate/internal/slang"
	"github.com/vovakirdan/left4translate/internal/translate"
	"github.com/vovakirdan/left4translate/internal/translate/google"
	"github.com/vovakirdan/left4translate/internal/translate/lingua"
)

// Detector names accepted by translation.detector.
const (
	DetectorRemote = "remote"
	DetectorLingua = "lingua"
)

// NewTranslationService builds the translation orchestrator from config.
func NewTranslationService(cfg config.TranslationConfig, logger *zerolog.Logger) (*translate.Service, error) {
	if cfg.Service != "" && !strings.EqualFold(cfg.Service, "google") {
		return nil, fmt.Errorf("unsupported translation service %q", cfg.Service)
	}

	backend := google.New(cfg.APIKey, cfg.BaseURL, cfg.RequestTimeout, logger)

	opts := []translate.Option{
		translate.WithLogger(logger),
		translate.WithSlang(slang.New(slangRules(cfg.Slang))),
	}
	if strings.EqualFold(cfg.Detector, DetectorLingua) {
		det, err := lingua.New(cfg.DetectorLanguages, logger)
		if err != nil {
			return nil, fmt.Errorf("init lingua detector: %w", err)
		}
		opts = append(opts, translate.WithDetector(det))
	}

	svc, err := translate.New(translate.Config{
		TargetLanguage:     cfg.TargetLanguage,
		CacheSize:          cfg.CacheSize,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RetryAttempts:      cfg.RetryAttempts,
		RetryBackoff:       cfg.RetryBackoff,
		AcquireWait:        cfg.AcquireWait,
	}, backend, opts...)
	if err != nil {
		return nil, fmt.Errorf("init translation service: %w", err)
	}
	return svc, nil
}

// NewClassifier builds the chat classifier from the game config.
func NewClassifier(cfg config.GameConfig, logger *zerolog.Logger) (*classifier.Classifier, error) {
	opts := []classifier.Option{classifier.WithLogger(logger)}
	if cfg.MessageFormat.Regex != "" {
		g, err := classifier.NewGrammar(cfg.MessageFormat.Regex)
		if err != nil {
			return nil, err
		}
		opts = append(opts, classifier.WithGrammar(g))
	}
	if len(cfg.SystemPrefixes) > 0 {
		opts = append(opts, classifier.WithExtraPrefixes(cfg.SystemPrefixes...))
	}
	return classifier.New(opts...), nil
}

// NewAuthService builds the viewer token service.
func NewAuthService(cfg config.DisplayConfig) *auth.Service {
	return auth.NewService(&auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.TokenTTL,
	})
}

// slangRules orders configured rules by pattern so the table is built the
// same way on every run.
func slangRules(m map[string]string) []slang.Rule {
	if len(m) == 0 {
		return nil
	}
	rules := make([]slang.Rule, 0, len(m))
	for pattern, replacement := range m {
		rules = append(rules, slang.Rule{Pattern: pattern, Replacement: replacement})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Pattern < rules[j].Pattern })
	return rules
}
