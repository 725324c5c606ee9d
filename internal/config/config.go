package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	LogDir       string
	JWTSecret    string

	// NotifyURLs are shoutrrr destinations for operational notifications
	// (import finished, event auto-completed). Comma-separated in the env.
	NotifyURLs []string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("DOORMAN_ENV", "development"),
		HTTPPort:     getEnv("DOORMAN_HTTP_PORT", "8080"),
		DatabasePath: getEnv("DOORMAN_DB_PATH", filepath.Join("data", "doorman.db")),
		LogDir:       getEnv("DOORMAN_LOG_DIR", filepath.Join("data", "logs")),
		JWTSecret:    getEnv("DOORMAN_JWT_SECRET", ""),
		NotifyURLs:   splitList(os.Getenv("DOORMAN_NOTIFY_URLS")),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("DOORMAN_JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "doorman-dev-secret"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening
// (secure cookies, JSON logs, mandatory JWT secret).
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
