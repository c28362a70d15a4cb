// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file > embedded > defaults.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Guliveer/mission-control/internal/models"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "10s", "30s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all dashboard configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sources SourcesConfig `yaml:"sources"`
	Agents  AgentsConfig  `yaml:"agents"`
	Trading TradingConfig `yaml:"trading"`
	System  SystemConfig  `yaml:"system"`
	Poll    PollConfig    `yaml:"poll"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// SourcesConfig locates the external data sources. Relative paths are
// resolved against Root.
type SourcesConfig struct {
	Root        string   `yaml:"root"`
	AgentsDir   string   `yaml:"agents_dir"`
	TasksFile   string   `yaml:"tasks_file"`
	TradingFile string   `yaml:"trading_file"`
	ProcDir     string   `yaml:"proc_dir"`
	CronCommand []string `yaml:"cron_command"`
	CronTimeout Duration `yaml:"cron_timeout"`
}

// AgentsConfig holds the roster of known agent profiles.
type AgentsConfig struct {
	Roster []models.AgentProfile `yaml:"roster"`
}

// TradingConfig holds ledger valuation settings.
type TradingConfig struct {
	InitialBalance float64 `yaml:"initial_balance"`
}

// SystemConfig overrides host identity shown on the dashboard. Empty
// values mean "introspect the host".
type SystemConfig struct {
	Hostname string `yaml:"hostname"`
	IP       string `yaml:"ip"`
}

// PollConfig holds client-side polling settings for the watch command.
type PollConfig struct {
	APIURL         string   `yaml:"api_url"`
	SystemInterval Duration `yaml:"system_interval"`
	Interval       Duration `yaml:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultRoster returns the built-in agent profiles.
func DefaultRoster() []models.AgentProfile {
	return []models.AgentProfile{
		{ID: "xyro", Name: "Xyro", Role: "Orchestrator", Specialty: "Task Routing", Emoji: "🎯"},
		{ID: "atlas", Name: "Atlas", Role: "Travel", Specialty: "Trip Planning", Emoji: "✈️"},
		{ID: "cipher", Name: "Cipher", Role: "Research", Specialty: "Web Search", Emoji: "🔍"},
		{ID: "codeslinger", Name: "CodeSlinger", Role: "Developer", Specialty: "Code & Deploy", Emoji: "⚡"},
		{ID: "finny", Name: "Finny", Role: "Finance", Specialty: "Budget & Expenses", Emoji: "💰"},
		{ID: "lockjaw", Name: "Lockjaw", Role: "Security", Specialty: "Threat Analysis", Emoji: "🔒"},
		{ID: "nova", Name: "Nova", Role: "Communications", Specialty: "Messages & Alerts", Emoji: "📡"},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: "127.0.0.1:3030",
		},
		Sources: SourcesConfig{
			Root:        ".",
			AgentsDir:   "agents",
			TasksFile:   "tasks.json",
			TradingFile: filepath.Join("trading-bot", "trade_history.json"),
			ProcDir:     "/proc",
			CronCommand: []string{"openclaw", "cron", "list"},
			CronTimeout: Duration{10 * time.Second},
		},
		Agents: AgentsConfig{
			Roster: DefaultRoster(),
		},
		Trading: TradingConfig{
			InitialBalance: 10000,
		},
		Poll: PollConfig{
			APIURL:         "http://127.0.0.1:3030",
			SystemInterval: Duration{10 * time.Second},
			Interval:       Duration{30 * time.Second},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// RosterMap indexes the configured roster by agent id.
func (c *Config) RosterMap() map[string]models.AgentProfile {
	m := make(map[string]models.AgentProfile, len(c.Agents.Roster))
	for _, p := range c.Agents.Roster {
		m[p.ID] = p
	}
	return m
}

// Resolve returns p unchanged when absolute, otherwise joined onto the
// sources root.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Sources.Root, p)
}

// AgentsPath is the resolved agents root directory.
func (c *Config) AgentsPath() string { return c.Resolve(c.Sources.AgentsDir) }

// TasksPath is the resolved tasks file.
func (c *Config) TasksPath() string { return c.Resolve(c.Sources.TasksFile) }

// TradingPath is the resolved trading ledger file.
func (c *Config) TradingPath() string { return c.Resolve(c.Sources.TradingFile) }

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// CLIOverrides holds values from command-line flags.
// Empty strings are treated as "not set" and skipped.
type CLIOverrides struct {
	Listen string
	Root   string
	APIURL string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is the per-user config location written by "config init".
func DefaultPath() string {
	return configSearchPaths()[0]
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > external YAML file > embedded bytes > defaults.
//
// An optional configPath argument controls external-file discovery:
//   - omitted: auto-discover via Locate()
//   - explicit value: use that path ("" means no external file)
func LoadLayered(cli CLIOverrides, embedded []byte, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	if len(embedded) > 0 {
		if err := yaml.Unmarshal(embedded, cfg); err != nil {
			return nil, fmt.Errorf("parsing embedded config: %w", err)
		}
	}

	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if cli.Listen != "" {
		cfg.Server.Listen = cli.Listen
	}
	if cli.Root != "" {
		cfg.Sources.Root = cli.Root
	}
	if cli.APIURL != "" {
		cfg.Poll.APIURL = cli.APIURL
	}

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

func applyEnvOverrides(cfg *Config) {
	if listen := os.Getenv("MC_LISTEN"); listen != "" {
		cfg.Server.Listen = listen
	}
	if root := os.Getenv("MC_ROOT"); root != "" {
		cfg.Sources.Root = root
	}
	if url := os.Getenv("MC_API_URL"); url != "" {
		cfg.Poll.APIURL = url
	}
	if level := os.Getenv("MC_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate checks that the configuration can run a server or a watcher.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Server.Listen, err)
	}
	if len(c.Sources.CronCommand) == 0 {
		return fmt.Errorf("cron command is required")
	}
	if c.Sources.CronTimeout.Duration <= 0 {
		return fmt.Errorf("cron timeout must be positive")
	}
	if c.Trading.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive (got: %v)", c.Trading.InitialBalance)
	}
	if c.Poll.SystemInterval.Duration <= 0 || c.Poll.Interval.Duration <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	for _, p := range c.Agents.Roster {
		if p.ID == "" {
			return fmt.Errorf("roster entry %q has no id", p.Name)
		}
	}
	return nil
}
