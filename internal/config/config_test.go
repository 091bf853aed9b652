package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.FAQCacheTTL != 5*time.Minute {
		t.Errorf("expected default FAQ cache TTL of 5m, got %s", cfg.FAQCacheTTL)
	}
	if cfg.TicketStoreBackend != "file" {
		t.Errorf("expected default ticket store backend file, got %s", cfg.TicketStoreBackend)
	}
	if cfg.TicketStorePath != "data/tickets.json" {
		t.Errorf("unexpected ticket store path %s", cfg.TicketStorePath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RUN_TIMEOUT", "90s")
	t.Setenv("DATA_DIR", "/var/lib/concierge")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.RunTimeout != 90*time.Second {
		t.Errorf("expected run timeout override, got %s", cfg.RunTimeout)
	}
	if cfg.ThreadStorePath != "/var/lib/concierge/threads.json" {
		t.Errorf("expected thread store under data dir, got %s", cfg.ThreadStorePath)
	}
}

func TestGetEnvAsDurationInvalid(t *testing.T) {
	t.Setenv("FAQ_CACHE_TTL", "not-a-duration")

	cfg := Load()
	if cfg.FAQCacheTTL != 5*time.Minute {
		t.Errorf("expected fallback to default TTL, got %s", cfg.FAQCacheTTL)
	}
}
