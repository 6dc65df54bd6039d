package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "quackview_history.sqlite", cfg.HistoryDBPath)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.EqualValues(t, 50<<20, cfg.MaxUploadBytes)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9191")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.ListenAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestYAMLFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quackview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen_addr: \":7070\"\nlog_level: debug\nsession_ttl: 2h\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "warn", cfg.LogLevel, "env must override the file")
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [oops"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}

func TestProductionRejectsCORSWildcard(t *testing.T) {
	t.Setenv("ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS wildcard")
}

func TestProductionWithExplicitOrigins(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestZeroTTLWarns(t *testing.T) {
	t.Setenv("SESSION_TTL", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "WARN"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "whatever"}).SlogLevel())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# comment\nDOTENV_A=hello\nDOTENV_B=\"quoted\"\n\nBROKENLINE\n"), 0o644))
	t.Setenv("DOTENV_A", "preset")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "preset", os.Getenv("DOTENV_A"), "existing env wins")
	assert.Equal(t, "quoted", os.Getenv("DOTENV_B"))
	t.Cleanup(func() { os.Unsetenv("DOTENV_B") })
}

func TestLoadDotEnvMissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
