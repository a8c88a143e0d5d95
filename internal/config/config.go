// Package config loads environment configuration. Every external
// collaborator is optional: a missing Redis URL selects the embedded
// backend, missing Retell credentials degrade submissions to
// lead-capture-only, and a missing stats token leaves /stats open.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	Redis  RedisConfig
	SQLite SQLiteConfig
	Retell RetellConfig
	Stats  StatsConfig
}

type AppConfig struct {
	Port      int    `envconfig:"LEADLINE_PORT" default:"8080"`
	LogLevel  string `envconfig:"LEADLINE_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LEADLINE_LOG_FORMAT" default:"console"`
	// Backend forces a storage backend: redis, sqlite or memory.
	// "auto" picks redis when a URL is configured, sqlite otherwise.
	Backend string `envconfig:"LEADLINE_BACKEND" default:"auto"`
}

type RedisConfig struct {
	URL string `envconfig:"LEADLINE_REDIS_URL"`
}

type SQLiteConfig struct {
	Path string `envconfig:"LEADLINE_DB_PATH" default:"./leadline.db"`
}

type RetellConfig struct {
	APIKey     string `envconfig:"LEADLINE_RETELL_API_KEY"`
	AgentID    string `envconfig:"LEADLINE_RETELL_AGENT_ID"`
	FromNumber string `envconfig:"LEADLINE_RETELL_FROM_NUMBER"`
	BaseURL    string `envconfig:"LEADLINE_RETELL_BASE_URL" default:"https://api.retellai.com"`
}

type StatsConfig struct {
	Token string `envconfig:"LEADLINE_STATS_TOKEN"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// BackendKind resolves the effective storage backend.
func (c *Config) BackendKind() string {
	switch c.App.Backend {
	case "redis", "sqlite", "memory":
		return c.App.Backend
	}
	if c.Redis.URL != "" {
		return "redis"
	}
	return "sqlite"
}
