// Package config loads service configuration from an optional YAML
// file with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr              string `yaml:"addr"`
		ReadHeaderTimeout int    `yaml:"read_header_timeout_sec"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Optimizer struct {
		Algorithm     string  `yaml:"algorithm"`
		TimeBudgetMs  int     `yaml:"time_budget_ms"`
		MaxIterations int     `yaml:"max_iterations"`
		InitTemp      float64 `yaml:"init_temp"`
		Cooling       float64 `yaml:"cooling"`
		// OptimizePerSec caps optimize requests; they are the only
		// expensive endpoint.
		OptimizePerSec float64 `yaml:"optimize_per_sec"`
	} `yaml:"optimizer"`
}

// Load reads path (when non-empty and present) and applies env
// overrides: PORT, DATABASE_URL, REDIS_URL.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Server.ReadHeaderTimeout = 5
	cfg.Optimizer.Algorithm = "alns"
	cfg.Optimizer.TimeBudgetMs = 3000
	cfg.Optimizer.OptimizePerSec = 1

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("OPTIMIZE_BUDGET_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Optimizer.TimeBudgetMs = n
		}
	}
	return cfg, nil
}

// TimeBudget returns the configured optimizer budget as a duration.
func (c *Config) TimeBudget() time.Duration {
	return time.Duration(c.Optimizer.TimeBudgetMs) * time.Millisecond
}
