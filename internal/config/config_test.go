package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadLayered_CLIOverridesEverything(t *testing.T) {
	embedded := []byte("server:\n  listen: \"0.0.0.0:9000\"\nsources:\n  root: \"/srv/embedded\"")
	t.Setenv("MC_ROOT", "/srv/env")
	cli := CLIOverrides{Listen: "127.0.0.1:9100", Root: "/srv/cli"}

	cfg, err := LoadLayered(cli, embedded, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Listen != "127.0.0.1:9100" {
		t.Errorf("Listen = %q, want CLI override", cfg.Server.Listen)
	}
	if cfg.Sources.Root != "/srv/cli" {
		t.Errorf("Root = %q, want CLI override", cfg.Sources.Root)
	}
}

func TestLoadLayered_EnvOverridesEmbed(t *testing.T) {
	embedded := []byte("server:\n  listen: \"0.0.0.0:9000\"\nsources:\n  root: \"/srv/embedded\"")
	t.Setenv("MC_ROOT", "/srv/env")

	cfg, err := LoadLayered(CLIOverrides{}, embedded, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sources.Root != "/srv/env" {
		t.Errorf("Root = %q, want env override", cfg.Sources.Root)
	}
	if cfg.Server.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q, want embedded value", cfg.Server.Listen)
	}
}

func TestLoadLayered_FileOverridesEmbed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "trading:\n  initial_balance: 2500\npoll:\n  interval: 45s\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(CLIOverrides{}, []byte("trading:\n  initial_balance: 500"), path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trading.InitialBalance != 2500 {
		t.Errorf("InitialBalance = %v, want 2500 from file", cfg.Trading.InitialBalance)
	}
	if cfg.Poll.Interval.Duration != 45*time.Second {
		t.Errorf("Interval = %v, want 45s", cfg.Poll.Interval.Duration)
	}
	if cfg.Poll.SystemInterval.Duration != 10*time.Second {
		t.Errorf("SystemInterval = %v, want 10s default", cfg.Poll.SystemInterval.Duration)
	}
}

func TestLoadLayered_DefaultsWhenEmpty(t *testing.T) {
	cfg, err := LoadLayered(CLIOverrides{}, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Poll.Interval.Duration.Seconds() != 30 {
		t.Errorf("Interval = %v, want 30s default", cfg.Poll.Interval.Duration)
	}
	if cfg.Trading.InitialBalance != 10000 {
		t.Errorf("InitialBalance = %v, want 10000", cfg.Trading.InitialBalance)
	}
	if len(cfg.Agents.Roster) != 7 {
		t.Errorf("Roster has %d entries, want 7", len(cfg.Agents.Roster))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadLayered_RosterReplacedByFile(t *testing.T) {
	embedded := []byte("agents:\n  roster:\n    - id: scout\n      name: Scout\n      role: Recon\n")

	cfg, err := LoadLayered(CLIOverrides{}, embedded, "")
	if err != nil {
		t.Fatal(err)
	}
	roster := cfg.RosterMap()
	if len(roster) != 1 {
		t.Fatalf("roster = %v, want only scout", roster)
	}
	if roster["scout"].Role != "Recon" {
		t.Errorf("scout role = %q", roster["scout"].Role)
	}
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources.Root = "/data/openclaw"

	if got := cfg.TasksPath(); got != "/data/openclaw/tasks.json" {
		t.Errorf("TasksPath = %q", got)
	}
	if got := cfg.TradingPath(); got != "/data/openclaw/trading-bot/trade_history.json" {
		t.Errorf("TradingPath = %q", got)
	}
	cfg.Sources.AgentsDir = "/abs/agents"
	if got := cfg.AgentsPath(); got != "/abs/agents" {
		t.Errorf("absolute AgentsPath = %q, want unchanged", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad listen", func(c *Config) { c.Server.Listen = "nope" }},
		{"no cron command", func(c *Config) { c.Sources.CronCommand = nil }},
		{"zero timeout", func(c *Config) { c.Sources.CronTimeout = Duration{} }},
		{"zero balance", func(c *Config) { c.Trading.InitialBalance = 0 }},
		{"zero interval", func(c *Config) { c.Poll.Interval = Duration{} }},
		{"roster without id", func(c *Config) { c.Agents.Roster = append(c.Agents.Roster, c.Agents.Roster[0]); c.Agents.Roster[7].ID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWriteConfig_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Sources.Root = "/srv/openclaw"

	if err := WriteConfig(cfg, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Sources.Root != "/srv/openclaw" {
		t.Errorf("round-tripped root = %q", loaded.Sources.Root)
	}
	if loaded.Sources.CronTimeout.Duration != 10*time.Second {
		t.Errorf("round-tripped timeout = %v", loaded.Sources.CronTimeout.Duration)
	}
}
