package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Guliveer/mission-control/internal/collector"
	"github.com/Guliveer/mission-control/internal/config"
	"github.com/Guliveer/mission-control/internal/models"
)

func TestPrintSnapshot_Table(t *testing.T) {
	results := []collector.Result{
		{Name: "agents", Data: []models.AgentRecord{{Status: models.StatusActive}, {Status: models.StatusIdle}}},
		{Name: "trading", Error: errors.New("reading trading ledger: missing")},
		{Name: "crons", Data: &models.CronListing{
			Jobs:   collector.FallbackJobs(),
			Origin: models.Origin{Mode: models.OriginFallback, Reason: "not found"},
		}},
	}

	var b bytes.Buffer
	if err := printSnapshot(&b, results, "table"); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"SOURCE",
		"2 agents: 1 active, 0 busy, 1 idle",
		"error",
		"reading trading ledger: missing",
		"3 jobs: 3 active, 0 disabled",
		collector.FallbackNote,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSnapshot_JSON(t *testing.T) {
	results := []collector.Result{
		{Name: "tasks", Data: []models.TaskRecord{{ID: "1", Status: models.TaskDone}}},
		{Name: "system", Error: errors.New("boom")},
	}

	var b bytes.Buffer
	if err := printSnapshot(&b, results, "json"); err != nil {
		t.Fatal(err)
	}
	var entries []struct {
		Source string          `json:"source"`
		Data   json.RawMessage `json:"data"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(b.Bytes(), &entries); err != nil {
		t.Fatalf("decode %q: %v", b.String(), err)
	}
	if len(entries) != 2 || entries[0].Source != "tasks" || len(entries[0].Data) == 0 {
		t.Errorf("entries = %+v", entries)
	}
	if entries[1].Error != "boom" || len(entries[1].Data) != 0 {
		t.Errorf("failed entry = %+v", entries[1])
	}
}

func TestPrintSnapshot_BadFormat(t *testing.T) {
	if err := printSnapshot(&bytes.Buffer{}, nil, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestBuildSources_RegistryOrder(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "agents", "nova"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Sources.Root = root
	cfg.Sources.ProcDir = filepath.Join(root, "proc")
	cfg.Sources.CronCommand = []string{"mission-control-no-such-cli"}

	sources, registry := buildSources(cfg, nil)
	if sources.Agents == nil || sources.Tasks == nil || sources.Trading == nil ||
		sources.System == nil || sources.Crons == nil {
		t.Fatalf("sources = %+v", sources)
	}

	var names []string
	for _, c := range registry.Collectors() {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "system,agents,tasks,trading,crons" {
		t.Errorf("registry order = %s", got)
	}

	listing, err := sources.Crons.Listing(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !listing.Origin.IsFallback() {
		t.Errorf("missing CLI should fall back, origin = %+v", listing.Origin)
	}

	agents, err := sources.Agents.Agents(context.Background())
	if err != nil || len(agents) != 1 || agents[0].Name != "Nova" {
		t.Errorf("agents = %+v, err = %v", agents, err)
	}
}

func TestInitLogger_FileOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "mc.log")
	cfg.Logging.Level = "debug"

	logger := initLogger(cfg, nil)
	logger.Debug("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestVersionCommand(t *testing.T) {
	var b bytes.Buffer
	rootCmd.SetOut(&b)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "mission-control dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var b bytes.Buffer
	rootCmd.SetOut(&b)
	rootCmd.SetErr(&b)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		initPath, initForce = "", false
	})
	err := rootCmd.Execute()
	return b.String(), err
}

func TestConfigInitThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.yaml")

	out, err := runCLI(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("init output = %q", out)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Trading.InitialBalance != 10000 || len(loaded.Agents.Roster) != 7 {
		t.Errorf("written config = %+v", loaded)
	}

	out, err = runCLI(t, "config", "validate", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ok") {
		t.Errorf("validate output = %q", out)
	}
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  listen: \"127.0.0.1:1\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "config", "init", "--path", path); err == nil {
		t.Fatal("expected error for existing file")
	}
	if _, err := runCLI(t, "config", "init", "--path", path, "--force"); err != nil {
		t.Fatalf("--force: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "127.0.0.1:1\"") {
		t.Errorf("file not overwritten:\n%s", data)
	}
}

func TestConfigValidate_Failures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("trading:\n  initial_balance: -5\n"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"invalid values", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, "config", "validate", tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
