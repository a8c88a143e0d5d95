package config_test

import (
	"testing"

	"github.com/leadline-hq/leadline/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Port != 8080 {
		t.Errorf("port %d, want 8080", cfg.App.Port)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("log level %q", cfg.App.LogLevel)
	}
	if cfg.SQLite.Path != "./leadline.db" {
		t.Errorf("sqlite path %q", cfg.SQLite.Path)
	}
	if cfg.Retell.BaseURL != "https://api.retellai.com" {
		t.Errorf("retell base url %q", cfg.Retell.BaseURL)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEADLINE_PORT", "9999")
	t.Setenv("LEADLINE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LEADLINE_STATS_TOKEN", "secret")
	t.Setenv("LEADLINE_RETELL_API_KEY", "key-1")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Port != 9999 {
		t.Errorf("port %d, want 9999", cfg.App.Port)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("redis url %q", cfg.Redis.URL)
	}
	if cfg.Stats.Token != "secret" {
		t.Errorf("stats token %q", cfg.Stats.Token)
	}
	if cfg.Retell.APIKey != "key-1" {
		t.Errorf("retell key %q", cfg.Retell.APIKey)
	}
}

func TestBackendKind(t *testing.T) {
	cases := []struct {
		name     string
		backend  string
		redisURL string
		want     string
	}{
		{"auto without redis", "auto", "", "sqlite"},
		{"auto with redis", "auto", "redis://localhost:6379", "redis"},
		{"forced sqlite over redis url", "sqlite", "redis://localhost:6379", "sqlite"},
		{"forced redis", "redis", "", "redis"},
		{"forced memory", "memory", "", "memory"},
		{"unknown value falls back to auto", "bogus", "", "sqlite"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.App.Backend = tc.backend
			cfg.Redis.URL = tc.redisURL
			if got := cfg.BackendKind(); got != tc.want {
				t.Errorf("BackendKind() = %q, want %q", got, tc.want)
			}
		})
	}
}
