package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 5

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// ScraperConfig controls fetch behavior.
type ScraperConfig struct {
	// NavigationTimeout bounds a single page navigation.
	NavigationTimeout time.Duration // default: 60s

	// TitleWait bounds the best-effort wait for the title element.
	TitleWait time.Duration // default: 5s

	// ContentWait bounds the best-effort wait for lazy content regions.
	ContentWait time.Duration // default: 2s

	// SettleDelay is the pause after scrolling to the bottom of the page.
	SettleDelay time.Duration // default: 1200ms

	// FetchTimeout bounds a static HTTP fetch.
	FetchTimeout time.Duration // default: 60s

	// BlockedResourceTypes lists resource types to block during rendering.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// DatabaseConfig controls the Postgres connection pool.
type DatabaseConfig struct {
	// URL is the Postgres connection string.
	URL string // default: "postgres://localhost:5432/listify"

	// MaxConns caps the pgx pool size.
	MaxConns int32 // default: 10
}

// LLMConfig controls the text-generation dependency.
type LLMConfig struct {
	// APIKey authenticates against the completion API. When empty, every
	// optimization request goes straight to fallback synthesis.
	APIKey string

	// Model is the completion model name. default: "gpt-4o-mini"
	Model string

	// BaseURL is the API root; any OpenAI-compatible endpoint works.
	// default: "https://api.openai.com/v1"
	BaseURL string

	// Timeout bounds a single completion call. default: 60s
	Timeout time.Duration
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("LISTIFY_HOST", "0.0.0.0"),
			Port: envIntOr("LISTIFY_PORT", 8080),
			Mode: envOr("LISTIFY_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("LISTIFY_HEADLESS", true),
			MaxPages:   envIntOr("LISTIFY_MAX_PAGES", 5),
			NoSandbox:  envBoolOr("LISTIFY_NO_SANDBOX", false),
			BrowserBin: os.Getenv("LISTIFY_BROWSER_BIN"),
		},
		Scraper: ScraperConfig{
			NavigationTimeout: envDurationOr("LISTIFY_NAV_TIMEOUT", 60*time.Second),
			TitleWait:         envDurationOr("LISTIFY_TITLE_WAIT", 5*time.Second),
			ContentWait:       envDurationOr("LISTIFY_CONTENT_WAIT", 2*time.Second),
			SettleDelay:       envDurationOr("LISTIFY_SETTLE_DELAY", 1200*time.Millisecond),
			FetchTimeout:      envDurationOr("LISTIFY_FETCH_TIMEOUT", 60*time.Second),
			BlockedResourceTypes: envSliceOr("LISTIFY_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Database: DatabaseConfig{
			URL:      envOr("LISTIFY_DATABASE_URL", "postgres://localhost:5432/listify"),
			MaxConns: int32(envIntOr("LISTIFY_DB_MAX_CONNS", 10)),
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("LISTIFY_LLM_API_KEY"),
			Model:   envOr("LISTIFY_LLM_MODEL", "gpt-4o-mini"),
			BaseURL: envOr("LISTIFY_LLM_BASE_URL", "https://api.openai.com/v1"),
			Timeout: envDurationOr("LISTIFY_LLM_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("LISTIFY_AUTH_ENABLED", false),
			APIKeys: envSliceOr("LISTIFY_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LISTIFY_RATE_RPS", 2.0),
			Burst:             envIntOr("LISTIFY_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("LISTIFY_LOG_LEVEL", "info"),
			Format: envOr("LISTIFY_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
