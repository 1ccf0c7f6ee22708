package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OCCUVIEW_API_BASE",
		"OCCUVIEW_WS_URL",
		"OCCUVIEW_SITE_ID",
		"OCCUVIEW_REQUEST_TIMEOUT_SECONDS",
		"OCCUVIEW_POLL_INTERVAL_SECONDS",
		"OCCUVIEW_RECONNECT_ATTEMPTS",
		"OCCUVIEW_RECONNECT_DELAY_SECONDS",
		"OCCUVIEW_DB_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.APIBase != "http://localhost:8080" {
		t.Fatalf("api base: %q", cfg.APIBase)
	}
	if cfg.SocketURL != "ws://localhost:8080/ws" {
		t.Fatalf("socket url: %q", cfg.SocketURL)
	}
	if cfg.SiteID != "avenue-mall" {
		t.Fatalf("site: %q", cfg.SiteID)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("timeout: %v", cfg.RequestTimeout)
	}
	if cfg.PollInterval != 30*time.Minute {
		t.Fatalf("poll interval: %v", cfg.PollInterval)
	}
	if cfg.ReconnectAttempts != 5 || cfg.ReconnectDelay != time.Second {
		t.Fatalf("reconnect: %d / %v", cfg.ReconnectAttempts, cfg.ReconnectDelay)
	}
	// Empty means "use the store's default location".
	if cfg.DBPath != "" {
		t.Fatalf("db path: %q", cfg.DBPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCCUVIEW_API_BASE", "https://dash.example.com")
	t.Setenv("OCCUVIEW_SITE_ID", "harbor-plaza")
	t.Setenv("OCCUVIEW_REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("OCCUVIEW_RECONNECT_ATTEMPTS", "9")
	t.Setenv("OCCUVIEW_DB_PATH", "/tmp/occuview-test.db")

	cfg := Load()
	if cfg.APIBase != "https://dash.example.com" {
		t.Fatalf("api base: %q", cfg.APIBase)
	}
	// https base derives a wss socket endpoint.
	if cfg.SocketURL != "wss://dash.example.com/ws" {
		t.Fatalf("socket url: %q", cfg.SocketURL)
	}
	if cfg.SiteID != "harbor-plaza" {
		t.Fatalf("site: %q", cfg.SiteID)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("timeout: %v", cfg.RequestTimeout)
	}
	if cfg.ReconnectAttempts != 9 {
		t.Fatalf("attempts: %d", cfg.ReconnectAttempts)
	}
	if cfg.DBPath != "/tmp/occuview-test.db" {
		t.Fatalf("db path: %q", cfg.DBPath)
	}
}

func TestSocketURLOverrideWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCCUVIEW_API_BASE", "https://dash.example.com")
	t.Setenv("OCCUVIEW_WS_URL", "wss://events.example.com/stream")

	cfg := Load()
	if cfg.SocketURL != "wss://events.example.com/stream" {
		t.Fatalf("socket url: %q", cfg.SocketURL)
	}
}

func TestBadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCCUVIEW_REQUEST_TIMEOUT_SECONDS", "soon")
	t.Setenv("OCCUVIEW_RECONNECT_ATTEMPTS", "many")

	cfg := Load()
	if cfg.RequestTimeout != 15*time.Second || cfg.ReconnectAttempts != 5 {
		t.Fatalf("bad values should fall back: %v / %d", cfg.RequestTimeout, cfg.ReconnectAttempts)
	}
}
