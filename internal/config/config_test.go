package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	def := Default()
	assert.Equal(t, def.Translation.TargetLanguage, cfg.Translation.TargetLanguage)
	assert.Equal(t, def.Translation.RateLimitPerMinute, cfg.Translation.RateLimitPerMinute)
	assert.Equal(t, def.Translation.AcquireWait, cfg.Translation.AcquireWait)
	assert.Equal(t, def.Display.MessageTimeout, cfg.Display.MessageTimeout)
	assert.Equal(t, def.Game.PollInterval, cfg.Game.PollInterval)
	assert.NoError(t, cfg.Validate())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "target_language: en")
	assert.Contains(t, string(data), "poll_interval: 250ms")
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
game:
  log_path: /games/l4d2/console.log
  message_format:
    regex: '^(?P<player>\w+): (?P<content>.+)$'
translation:
  target_language: de
  cache_size: 50
  retry_backoff: 2s
  slang:
    pls: please
display:
  max_messages: 8
`
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(content)), 0o600))

	t.Setenv("L4T_TRANSLATION_TARGET_LANGUAGE", "fr")
	t.Setenv("L4T_TRANSLATION_API_KEY", "secret-key")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "/games/l4d2/console.log", cfg.Game.LogPath)
	assert.Equal(t, "fr", cfg.Translation.TargetLanguage, "env beats file")
	assert.Equal(t, "secret-key", cfg.Translation.APIKey, "env beats default")
	assert.Equal(t, 50, cfg.Translation.CacheSize)
	assert.Equal(t, 2*time.Second, cfg.Translation.RetryBackoff)
	assert.Equal(t, 3, cfg.Translation.RetryAttempts, "default kept")
	assert.Equal(t, map[string]string{"pls": "please"}, cfg.Translation.Slang)
	assert.Equal(t, 8, cfg.Display.MaxMessages)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: [unterminated"), 0o600))

	_, _, err := Load(nil, path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, func() error { c := Default(); return c.Validate() }())

	cfg := Default()
	cfg.Game.MessageFormat.Regex = `^(?P<player>\w+)$`
	cfg.Translation.TargetLanguage = "english please"
	cfg.Translation.CacheSize = 0
	cfg.Translation.Detector = "magic"
	cfg.Display.JWTRequired = true
	cfg.Redis.URL = "redis://localhost:6379"
	cfg.Redis.Stream = ""

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"game.message_format.regex",
		"translation.target_language",
		"translation.cache_size",
		"translation.detector",
		"display.jwt_secret",
		"redis.stream",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{
		Game:        GameConfig{LogPath: "/tmp/console.log", FromStart: true},
		Translation: TranslationConfig{TargetLanguage: "pt"},
		Logging:     LoggingConfig{Level: "debug"},
	})

	assert.Equal(t, "/tmp/console.log", cfg.Game.LogPath)
	assert.True(t, cfg.Game.FromStart)
	assert.Equal(t, "pt", cfg.Translation.TargetLanguage)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, Default().Display.Addr, cfg.Display.Addr)
}

func TestRequireHelpers(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.RequireRemote())
	assert.Error(t, cfg.RequireLog())

	cfg.Translation.APIKey = "k"
	cfg.Game.LogPath = "console.log"
	assert.NoError(t, cfg.RequireRemote())
	assert.NoError(t, cfg.RequireLog())
}
