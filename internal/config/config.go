package config

import (
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Everything comes from the environment
// with sensible defaults so the binary runs against a local backend out of
// the box.
type Config struct {
	APIBase           string
	SocketURL         string
	SiteID            string
	RequestTimeout    time.Duration
	PollInterval      time.Duration
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	DBPath            string
}

// Load reads the environment. DBPath stays empty unless overridden; the
// caller falls back to the store's default location.
func Load() Config {
	base := envOrDefault("OCCUVIEW_API_BASE", "http://localhost:8080")

	return Config{
		APIBase:           base,
		SocketURL:         envOrDefault("OCCUVIEW_WS_URL", socketURLFor(base)),
		SiteID:            envOrDefault("OCCUVIEW_SITE_ID", "avenue-mall"),
		RequestTimeout:    envOrDefaultDuration("OCCUVIEW_REQUEST_TIMEOUT_SECONDS", 15*time.Second),
		PollInterval:      envOrDefaultDuration("OCCUVIEW_POLL_INTERVAL_SECONDS", 30*time.Minute),
		ReconnectAttempts: envOrDefaultInt("OCCUVIEW_RECONNECT_ATTEMPTS", 5),
		ReconnectDelay:    envOrDefaultDuration("OCCUVIEW_RECONNECT_DELAY_SECONDS", time.Second),
		DBPath:            os.Getenv("OCCUVIEW_DB_PATH"),
	}
}

// socketURLFor derives the websocket endpoint from the API base URL.
func socketURLFor(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return "ws://localhost:8080/ws"
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
