package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/decisionworks/ranker/internal/wp"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Worker   WorkerConfig   `yaml:"worker"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type WorkerConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxConcurrent int  `yaml:"max_concurrent"`
}

// RankingConfig carries the criteria applied when a request supplies a
// matrix but no criteria of its own.
type RankingConfig struct {
	DefaultCriteria []CriterionConfig `yaml:"default_criteria"`
}

type CriterionConfig struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Kind   string  `yaml:"kind"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultCriteria converts the configured criteria into engine form,
// validating each kind label.
func (c *Config) DefaultCriteria() ([]wp.Criterion, error) {
	criteria := make([]wp.Criterion, len(c.Ranking.DefaultCriteria))
	for i, cc := range c.Ranking.DefaultCriteria {
		kind, err := wp.ParseKind(cc.Kind)
		if err != nil {
			return nil, fmt.Errorf("default criterion %d (%s): %w", i, cc.Name, err)
		}
		criteria[i] = wp.Criterion{Name: cc.Name, Weight: cc.Weight, Kind: kind}
	}
	return criteria, nil
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Worker: WorkerConfig{
			Enabled:       true,
			MaxConcurrent: 4,
		},
		Ranking: RankingConfig{
			DefaultCriteria: []CriterionConfig{
				{Name: "quality", Weight: 0.28, Kind: "benefit"},
				{Name: "experience", Weight: 0.22, Kind: "benefit"},
				{Name: "price", Weight: 0.11, Kind: "cost"},
				{Name: "delivery", Weight: 0.22, Kind: "benefit"},
				{Name: "support", Weight: 0.17, Kind: "benefit"},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	// Catch bad kind labels at startup instead of on the first request.
	if _, err := cfg.DefaultCriteria(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RANKER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("RANKER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("RANKER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("RANKER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("RANKER_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("RANKER_WORKER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Worker.Enabled = b
		}
	}
	if v := os.Getenv("RANKER_WORKER_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Worker.MaxConcurrent = n
		}
	}
	if v := os.Getenv("RANKER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
