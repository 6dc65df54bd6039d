// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the HTTP API and session engine.
// Values are resolved in three layers: built-in defaults, then an optional
// YAML file, then environment variables.
type Config struct {
	ListenAddr    string `yaml:"listen_addr"`    // HTTP listen address (default ":8080")
	LogLevel      string `yaml:"log_level"`      // debug, info, warn, error (default "info")
	Env           string `yaml:"env"`            // "development" (default) or "production"
	HistoryDBPath string `yaml:"history_db_path"` // SQLite query-history file
	TmpDir        string `yaml:"tmp_dir"`        // upload spool dir ("" = OS default)

	// Session lifecycle
	SessionTTL time.Duration `yaml:"session_ttl"` // idle sessions expire after this (default 1h)

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"` // multipart upload cap (default 50 MiB)

	// Rate limiting
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`   // sustained requests per second (default 100)
	RateLimitBurst int     `yaml:"rate_limit_burst"` // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"` // default: ["*"]

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string `yaml:"-"`
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load resolves the configuration. If CONFIG_FILE is set (or quackview.yaml
// exists in the working directory), that file is read first; environment
// variables override it.
func Load() (*Config, error) {
	cfg := defaults()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		if _, err := os.Stat("quackview.yaml"); err == nil {
			path = "quackview.yaml"
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnv()
	return cfg.finish()
}

func defaults() *Config {
	return &Config{
		ListenAddr:         ":8080",
		LogLevel:           "info",
		HistoryDBPath:      "quackview_history.sqlite",
		SessionTTL:         time.Hour,
		MaxUploadBytes:     50 << 20,
		RateLimitRPS:       100,
		RateLimitBurst:     200,
		CORSAllowedOrigins: []string{"*"},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("LISTEN_ADDR", &c.ListenAddr)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("ENV", &c.Env)
	setString("HISTORY_DB_PATH", &c.HistoryDBPath)
	setString("TMP_DIR", &c.TmpDir)

	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = d
		}
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimitBurst = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.CORSAllowedOrigins = compactNonEmpty(origins)
	}
}

// finish applies residual defaults and enforces production hardening.
func (c *Config) finish() (*Config, error) {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HistoryDBPath == "" {
		c.HistoryDBPath = "quackview_history.sqlite"
	}
	if c.SessionTTL < 0 {
		return nil, fmt.Errorf("SESSION_TTL must not be negative")
	}
	if c.SessionTTL == 0 {
		c.Warnings = append(c.Warnings, "SESSION_TTL is 0 — sessions never expire")
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 50 << 20
	}
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = 100
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 200
	}
	if len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}

	// Production mode: insecure defaults are fatal errors.
	if c.IsProduction() {
		if len(c.CORSAllowedOrigins) == 1 && c.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return c, nil
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
