package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUserAgent is a desktop Chrome identifier. Some recipe sites reject
// Go's default client string outright.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Browser BrowserConfig
	Proxy   ProxyConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080 (PORT is honoured for PaaS deployments)
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls the plain HTTP engine.
type FetchConfig struct {
	// Timeout bounds a single page fetch.
	Timeout time.Duration // default: 25s

	// MaxBodyBytes caps how much of the response body is read.
	MaxBodyBytes int64 // default: 10 MB

	// UserAgent is sent on every outbound request.
	UserAgent string

	// DefaultProxy is an optional http(s) or socks5 proxy URL.
	DefaultProxy string
}

// BrowserConfig controls the optional headless browser engine.
type BrowserConfig struct {
	// Enabled adds the browser engine to the fetch chain.
	Enabled bool // default: false

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Timeout bounds navigation plus HTML capture.
	Timeout time.Duration // default: 35s

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// ProxyConfig controls the scraping-proxy engine used as a last resort
// against anti-bot walls. The engine is only enabled when APIKey is set.
type ProxyConfig struct {
	APIKey   string
	Endpoint string        // default: "https://api.scraperapi.com"
	Country  string        // default: "au"
	Timeout  time.Duration // default: 60s
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
			Host: envOr("RECIPE_HOST", "0.0.0.0"),
			Port: envIntOr("RECIPE_PORT", envIntOr("PORT", 8080)),
			Mode: envOr("RECIPE_MODE", "release"),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("RECIPE_FETCH_TIMEOUT", 25*time.Second),
			MaxBodyBytes: int64(envIntOr("RECIPE_MAX_BODY_BYTES", 10<<20)),
			UserAgent:    envOr("RECIPE_USER_AGENT", DefaultUserAgent),
			DefaultProxy: os.Getenv("RECIPE_PROXY"),
		},
		Browser: BrowserConfig{
			Enabled:    envBoolOr("RECIPE_BROWSER_ENABLED", false),
			Headless:   envBoolOr("RECIPE_HEADLESS", true),
			MaxPages:   envIntOr("RECIPE_MAX_PAGES", 4),
			NoSandbox:  envBoolOr("RECIPE_NO_SANDBOX", false),
			BrowserBin: os.Getenv("RECIPE_BROWSER_BIN"),
			Timeout:    envDurationOr("RECIPE_BROWSER_TIMEOUT", 35*time.Second),
			BlockedResourceTypes: envSliceOr("RECIPE_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Proxy: ProxyConfig{
			APIKey:   os.Getenv("SCRAPER_API_KEY"),
			Endpoint: envOr("SCRAPER_API_ENDPOINT", "https://api.scraperapi.com"),
			Country:  envOr("SCRAPER_COUNTRY", "au"),
			Timeout:  envDurationOr("RECIPE_PROXY_TIMEOUT", 60*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("RECIPE_LOG_LEVEL", "info"),
			Format: envOr("RECIPE_LOG_FORMAT", "json"),
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
