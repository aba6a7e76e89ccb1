package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration for the gallery HTTP server.
type Config struct {
	Host    string // Bind address (e.g., "localhost", "0.0.0.0")
	Port    int    // HTTP server port
	DocsDir string // Directory holding manifest.json and reports/

	// Manifest is a file path or an http(s) URL. Empty means DocsDir/manifest.json.
	Manifest     string
	Watch        bool          // Reload the manifest when the file changes
	FetchTimeout time.Duration // Timeout for the initial manifest fetch
	LogLevel     string        // "debug", "info", "warn", "error"
}

// DefaultConfig returns gallery configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		DocsDir:      "./docs",
		Watch:        true,
		FetchTimeout: 10 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads an optional .env file and overrides defaults from the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	def := DefaultConfig()
	cfg := Config{
		Host:         getEnvDefault("GALLERY_HOST", def.Host),
		Port:         getEnvInt("GALLERY_PORT", def.Port),
		DocsDir:      getEnvDefault("GALLERY_DOCS_DIR", def.DocsDir),
		Manifest:     os.Getenv("GALLERY_MANIFEST"),
		Watch:        getEnvBool("GALLERY_WATCH", def.Watch),
		FetchTimeout: getEnvDuration("GALLERY_FETCH_TIMEOUT", def.FetchTimeout),
		LogLevel:     getEnvDefault("GALLERY_LOG_LEVEL", def.LogLevel),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("GALLERY_PORT must be in 1..65535, got %d", cfg.Port)
	}
	if cfg.FetchTimeout <= 0 {
		return cfg, fmt.Errorf("GALLERY_FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ManifestSource returns where the manifest is loaded from.
func (c Config) ManifestSource() string {
	if c.Manifest != "" {
		return c.Manifest
	}
	return filepath.Join(c.DocsDir, "manifest.json")
}

// ManifestIsRemote reports whether the manifest is fetched over HTTP.
func (c Config) ManifestIsRemote() bool {
	src := c.ManifestSource()
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
