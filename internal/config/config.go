package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/left4translate/internal/classifier"
	"github.com/vovakirdan/left4translate/internal/translate"
)

// Config holds application configuration values.
type Config struct {
	Game        GameConfig        `mapstructure:"game" yaml:"game"`
	Translation TranslationConfig `mapstructure:"translation" yaml:"translation"`
	Display     DisplayConfig     `mapstructure:"display" yaml:"display"`
	Store       StoreConfig       `mapstructure:"store" yaml:"store"`
	Redis       RedisConfig       `mapstructure:"redis" yaml:"redis"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// GameConfig locates the game log and describes its chat lines.
type GameConfig struct {
	LogPath        string        `mapstructure:"log_path" yaml:"log_path"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	FromStart      bool          `mapstructure:"from_start" yaml:"from_start"`
	MessageFormat  MessageFormat `mapstructure:"message_format" yaml:"message_format"`
	SystemPrefixes []string      `mapstructure:"system_prefixes" yaml:"system_prefixes"`
}

// MessageFormat overrides the chat grammar. The regex must name its groups
// player and content; team is optional.
type MessageFormat struct {
	Regex string `mapstructure:"regex" yaml:"regex"`
}

// TranslationConfig configures the backend and the orchestration policy.
type TranslationConfig struct {
	Service            string            `mapstructure:"service" yaml:"service"`
	APIKey             string            `mapstructure:"api_key" yaml:"api_key"`
	BaseURL            string            `mapstructure:"base_url" yaml:"base_url"`
	TargetLanguage     string            `mapstructure:"target_language" yaml:"target_language"`
	CacheSize          int               `mapstructure:"cache_size" yaml:"cache_size"`
	RateLimitPerMinute int               `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	RetryAttempts      int               `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	RetryBackoff       time.Duration     `mapstructure:"retry_backoff" yaml:"retry_backoff"`
	AcquireWait        time.Duration     `mapstructure:"acquire_wait" yaml:"acquire_wait"`
	RequestTimeout     time.Duration     `mapstructure:"request_timeout" yaml:"request_timeout"`
	Detector           string            `mapstructure:"detector" yaml:"detector"`
	DetectorLanguages  []string          `mapstructure:"detector_languages" yaml:"detector_languages"`
	Workers            int               `mapstructure:"workers" yaml:"workers"`
	Slang              map[string]string `mapstructure:"slang" yaml:"slang"`
}

// DisplayConfig configures the overlay server.
type DisplayConfig struct {
	Addr                 string        `mapstructure:"addr" yaml:"addr"`
	MaxMessages          int           `mapstructure:"max_messages" yaml:"max_messages"`
	MessageTimeout       time.Duration `mapstructure:"message_timeout" yaml:"message_timeout"`
	ReadHeaderTimeout    time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout      time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	JWTSecret            string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTRequired          bool          `mapstructure:"jwt_required" yaml:"jwt_required"`
	JWTIssuer            string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience          string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	TokenTTL             time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	TranscriptsPerMinute int           `mapstructure:"transcripts_per_minute" yaml:"transcripts_per_minute"`
	MaxMessageBytes      int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
}

// StoreConfig configures the transcript history database.
type StoreConfig struct {
	DatabasePath string        `mapstructure:"database_path" yaml:"database_path"`
	Retention    time.Duration `mapstructure:"retention" yaml:"retention"`
}

// RedisConfig configures the optional stream sink.
type RedisConfig struct {
	URL    string `mapstructure:"url" yaml:"url"`
	Stream string `mapstructure:"stream" yaml:"stream"`
	MaxLen int64  `mapstructure:"max_len" yaml:"max_len"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Path  string `mapstructure:"path" yaml:"path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Game: GameConfig{
			PollInterval: 250 * time.Millisecond,
		},
		Translation: TranslationConfig{
			Service:            "google",
			TargetLanguage:     "en",
			CacheSize:          1000,
			RateLimitPerMinute: 100,
			RetryAttempts:      3,
			RetryBackoff:       time.Second,
			AcquireWait:        100 * time.Millisecond,
			RequestTimeout:     10 * time.Second,
			Detector:           "remote",
			Workers:            4,
		},
		Display: DisplayConfig{
			Addr:                 "127.0.0.1:8765",
			MaxMessages:          5,
			MessageTimeout:       10 * time.Second,
			ReadHeaderTimeout:    5 * time.Second,
			ShutdownTimeout:      5 * time.Second,
			JWTIssuer:            "left4translate",
			JWTAudience:          "overlay",
			TokenTTL:             24 * time.Hour,
			TranscriptsPerMinute: 60,
			MaxMessageBytes:      1 << 16,
		},
		Store: StoreConfig{
			Retention: 7 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			Stream: "left4translate:entries",
			MaxLen: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Only the fields exposed as command-line overrides are considered.
func (c *Config) UpdateFrom(other Config) {
	if other.Game.LogPath != "" {
		c.Game.LogPath = other.Game.LogPath
	}
	if other.Game.FromStart {
		c.Game.FromStart = true
	}
	if other.Translation.TargetLanguage != "" {
		c.Translation.TargetLanguage = other.Translation.TargetLanguage
	}
	if other.Translation.APIKey != "" {
		c.Translation.APIKey = other.Translation.APIKey
	}
	if other.Translation.Detector != "" {
		c.Translation.Detector = other.Translation.Detector
	}
	if other.Display.Addr != "" {
		c.Display.Addr = other.Display.Addr
	}
	if other.Store.DatabasePath != "" {
		c.Store.DatabasePath = other.Store.DatabasePath
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
}

// Validate reports every problem found in the configuration at once. It
// compiles the custom chat grammar so a bad pattern fails at load time.
func (c *Config) Validate() error {
	var errs []error

	if c.Game.PollInterval <= 0 {
		errs = append(errs, errors.New("game.poll_interval must be positive"))
	}
	if c.Game.MessageFormat.Regex != "" {
		if _, err := classifier.NewGrammar(c.Game.MessageFormat.Regex); err != nil {
			errs = append(errs, fmt.Errorf("game.message_format.regex: %w", err))
		}
	}

	t := c.Translation
	switch strings.ToLower(t.Service) {
	case "google":
	default:
		errs = append(errs, fmt.Errorf("translation.service: unsupported service %q", t.Service))
	}
	if err := translate.ValidLanguage(t.TargetLanguage); err != nil {
		errs = append(errs, fmt.Errorf("translation.target_language: %w", err))
	}
	if t.CacheSize <= 0 {
		errs = append(errs, errors.New("translation.cache_size must be positive"))
	}
	if t.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("translation.rate_limit_per_minute must not be negative"))
	}
	if t.RetryAttempts <= 0 {
		errs = append(errs, errors.New("translation.retry_attempts must be positive"))
	}
	if t.RetryBackoff < 0 || t.AcquireWait < 0 || t.RequestTimeout < 0 {
		errs = append(errs, errors.New("translation durations must not be negative"))
	}
	switch strings.ToLower(t.Detector) {
	case "remote", "lingua":
	default:
		errs = append(errs, fmt.Errorf("translation.detector: unsupported detector %q", t.Detector))
	}
	if t.Workers <= 0 {
		errs = append(errs, errors.New("translation.workers must be positive"))
	}

	d := c.Display
	if d.MaxMessages <= 0 {
		errs = append(errs, errors.New("display.max_messages must be positive"))
	}
	if d.MessageTimeout < 0 {
		errs = append(errs, errors.New("display.message_timeout must not be negative"))
	}
	if d.JWTRequired && d.JWTSecret == "" {
		errs = append(errs, errors.New("display.jwt_secret is required when display.jwt_required is set"))
	}
	if d.TranscriptsPerMinute < 0 {
		errs = append(errs, errors.New("display.transcripts_per_minute must not be negative"))
	}

	if c.Redis.URL != "" && c.Redis.Stream == "" {
		errs = append(errs, errors.New("redis.stream is required when redis.url is set"))
	}

	return errors.Join(errs...)
}

// RequireRemote reports problems that only matter when the remote backend
// is actually called.
func (c *Config) RequireRemote() error {
	if c.Translation.APIKey == "" {
		return errors.New("translation.api_key is required")
	}
	return nil
}

// RequireLog reports whether the game log path is configured.
func (c *Config) RequireLog() error {
	if c.Game.LogPath == "" {
		return errors.New("game.log_path is required")
	}
	return nil
}
