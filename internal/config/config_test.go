package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Optimizer.Algorithm != "alns" || cfg.Optimizer.TimeBudgetMs != 3000 {
		t.Fatalf("optimizer defaults = %+v", cfg.Optimizer)
	}
	if cfg.TimeBudget() != 3*time.Second {
		t.Fatalf("TimeBudget() = %s", cfg.TimeBudget())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	text := `server:
  addr: ":9090"
optimizer:
  algorithm: exhaustive
  time_budget_ms: 500
  optimize_per_sec: 5
`
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Optimizer.Algorithm != "exhaustive" || cfg.Optimizer.TimeBudgetMs != 500 {
		t.Fatalf("optimizer = %+v", cfg.Optimizer)
	}
	if cfg.Optimizer.OptimizePerSec != 5 {
		t.Fatalf("optimize_per_sec = %v", cfg.Optimizer.OptimizePerSec)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://db/botnav")
	t.Setenv("OPTIMIZE_BUDGET_MS", "250")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.URL != "postgres://db/botnav" {
		t.Fatalf("database url = %q", cfg.Database.URL)
	}
	if cfg.Optimizer.TimeBudgetMs != 250 {
		t.Fatalf("budget = %d", cfg.Optimizer.TimeBudgetMs)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
}
