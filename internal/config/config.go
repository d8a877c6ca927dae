// Package config provides centralized configuration loaded from environment
// variables. Shared by every quizwatch subcommand.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Tracked player registry
// --------------------------------------------------------------------------

// DefaultTrackedPlayers is the cohort the reports are scoped to. Override
// with QUIZ_TRACKED_PLAYERS (comma-separated usernames).
var DefaultTrackedPlayers = []string{
	"jutabouret",
	"louish",
	"KylianMbappe",
	"BastienZim",
	"kamaiel",
	"phllbrn",
	"DestroyOps",
	"pascal-condamine",
	"ColonelProut",
}

// RealNames maps lowercased usernames to display names for report tables.
var RealNames = map[string]string{
	"jutabouret":       "Julien",
	"louish":           "Louis",
	"kylianmbappe":     "Clement",
	"bastienzim":       "Bastien",
	"kamaiel":          "Raphael",
	"phllbrn":          "Ophélie",
	"destroyops":       "Alexis",
	"pascal-condamine": "Pascal",
	"colonelprout":     "Lucas",
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Source site
	BaseURL      string
	UserAgent    string
	RateLimit    time.Duration // minimum delay between requests
	FetchTimeout time.Duration
	CookiesFile  string

	// Archive cache
	CacheDir string

	// Tracked cohort
	TrackedPlayers []string

	// Relational quiz store (optional; daily report degrades without it)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost          string
	APIPort          int
	CORSAllowOrigins []string
	Environment      string
}

// Load reads configuration from environment variables with sensible defaults.
// Nothing is required: the archive pipeline works out of the box and the
// quiz store is only connected when DATABASE_URL is set.
func Load() (*Config, error) {
	return &Config{
		BaseURL:      envOr("QUIZ_BASE_URL", "https://www.quizypedia.fr"),
		UserAgent:    envOr("QUIZ_USER_AGENT", "quizwatch/1.0 (+https://github.com/bastienzim/quizwatch)"),
		RateLimit:    time.Duration(envInt("QUIZ_RATE_LIMIT_MS", 700)) * time.Millisecond,
		FetchTimeout: time.Duration(envInt("QUIZ_FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
		CookiesFile:  envOr("QUIZ_COOKIES_FILE", "data/cookies.json"),

		CacheDir: envOr("QUIZ_CACHE_DIR", "data/cache/archive"),

		TrackedPlayers: envList("QUIZ_TRACKED_PLAYERS", DefaultTrackedPlayers),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost: envOr("API_HOST", "127.0.0.1"),
		APIPort: envInt("API_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
		Environment: envOr("ENVIRONMENT", "development"),
	}, nil
}

// HasQuizStore reports whether the relational quiz store is configured.
func (c *Config) HasQuizStore() bool {
	return c.DatabaseURL != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
