package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Guliveer/mission-control/internal/models"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testRoster() map[string]models.AgentProfile {
	return map[string]models.AgentProfile{
		"xyro": {ID: "xyro", Name: "Xyro", Role: "Orchestrator", Specialty: "Task Routing", Emoji: "🎯"},
	}
}

func mkAgent(t *testing.T, root, name, heartbeat string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, "memory"), 0755); err != nil {
		t.Fatal(err)
	}
	if heartbeat == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, HeartbeatPath), []byte(heartbeat), 0644); err != nil {
		t.Fatal(err)
	}
}

func msAgo(d time.Duration) int64 {
	return testNow.Add(-d).UnixMilli()
}

func newTestAgentCollector(root string) *AgentCollector {
	return NewAgentCollector(root, testRoster(), nil,
		WithClock(func() time.Time { return testNow }),
		WithTaskCounter(func(string) int { return 42 }))
}

func TestAgents_OneRecordPerDirectory(t *testing.T) {
	root := t.TempDir()
	mkAgent(t, root, "xyro", fmt.Sprintf(`{"lastActivity": %d}`, msAgo(30*time.Minute)))
	mkAgent(t, root, "newbie", "")
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("not an agent"), 0644); err != nil {
		t.Fatal(err)
	}

	agents, err := newTestAgentCollector(root).Agents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(agents) != 2 {
		t.Fatalf("got %d agents, want 2: %+v", len(agents), agents)
	}

	newbie := agents[0]
	if newbie.ID != "newbie" || newbie.Name != "Newbie" || newbie.Role != "Unknown" ||
		newbie.Specialty != "Unknown" || newbie.Emoji != "🤖" {
		t.Errorf("unknown agent profile = %+v", newbie.AgentProfile)
	}
	if newbie.Status != models.StatusIdle || newbie.LastActive != "never" {
		t.Errorf("newbie status = %q/%q, want idle/never", newbie.Status, newbie.LastActive)
	}

	xyro := agents[1]
	if xyro.Role != "Orchestrator" || xyro.Emoji != "🎯" {
		t.Errorf("xyro profile = %+v, want roster entry", xyro.AgentProfile)
	}
	if xyro.Status != models.StatusActive {
		t.Errorf("xyro status = %q, want active", xyro.Status)
	}
	if xyro.LastActive != "30 minutes ago" {
		t.Errorf("xyro lastActive = %q", xyro.LastActive)
	}
	if xyro.TasksCompleted != 42 {
		t.Errorf("TasksCompleted = %d, want injected 42", xyro.TasksCompleted)
	}
}

func TestStatusForAge(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{-5 * time.Minute, models.StatusActive},
		{0, models.StatusActive},
		{59*time.Minute + 59*time.Second, models.StatusActive},
		{time.Hour, models.StatusBusy},
		{time.Hour + time.Second, models.StatusBusy},
		{6*time.Hour - time.Second, models.StatusBusy},
		{6 * time.Hour, models.StatusIdle},
		{72 * time.Hour, models.StatusIdle},
	}
	for _, tt := range tests {
		t.Run(tt.elapsed.String(), func(t *testing.T) {
			if got := StatusForAge(tt.elapsed); got != tt.want {
				t.Errorf("StatusForAge(%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestAgents_HeartbeatVariants(t *testing.T) {
	tests := []struct {
		name      string
		heartbeat string
		want      string
	}{
		{"just under an hour", fmt.Sprintf(`{"lastActivity": %d}`, msAgo(59*time.Minute+59*time.Second)), models.StatusActive},
		{"just over an hour", fmt.Sprintf(`{"lastActivity": %d}`, msAgo(time.Hour+time.Second)), models.StatusBusy},
		{"old", fmt.Sprintf(`{"lastActivity": %d}`, msAgo(7*time.Hour)), models.StatusIdle},
		{"email fallback", fmt.Sprintf(`{"lastChecks": {"email": %d}}`, msAgo(2*time.Hour)), models.StatusBusy},
		{"zero falls back to email", fmt.Sprintf(`{"lastActivity": 0, "lastChecks": {"email": %d}}`, msAgo(time.Minute)), models.StatusActive},
		{"rfc3339 string", fmt.Sprintf(`{"lastActivity": %q}`, testNow.Add(-10*time.Minute).Format(time.RFC3339)), models.StatusActive},
		{"comments tolerated", fmt.Sprintf("{\n// written by agent\n\"lastActivity\": %d,\n}", msAgo(3*time.Hour)), models.StatusBusy},
		{"no timestamp", `{"other": true}`, models.StatusIdle},
		{"unparseable string", `{"lastActivity": "yesterday"}`, models.StatusIdle},
		{"malformed", `{"lastActivity":`, models.StatusIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			mkAgent(t, root, "xyro", tt.heartbeat)

			agents, err := newTestAgentCollector(root).Agents(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(agents) != 1 {
				t.Fatalf("got %d agents", len(agents))
			}
			if agents[0].Status != tt.want {
				t.Errorf("status = %q, want %q", agents[0].Status, tt.want)
			}
		})
	}
}

func TestAgents_MissingRootFails(t *testing.T) {
	c := newTestAgentCollector(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := c.Agents(context.Background()); err == nil {
		t.Fatal("expected error for missing agents root")
	}
}

func TestAgents_SymlinkedDirectoryCounts(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	mkAgent(t, elsewhere, "cipher", "")
	if err := os.Symlink(filepath.Join(elsewhere, "cipher"), filepath.Join(root, "cipher")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	agents, err := newTestAgentCollector(root).Agents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(agents) != 1 || agents[0].ID != "cipher" {
		t.Errorf("agents = %+v, want cipher", agents)
	}
}

func TestAgents_Idempotent(t *testing.T) {
	root := t.TempDir()
	mkAgent(t, root, "xyro", fmt.Sprintf(`{"lastActivity": %d}`, msAgo(2*time.Hour)))
	mkAgent(t, root, "nova", "")
	c := newTestAgentCollector(root)

	first, err := c.Agents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Agents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads differ:\n%+v\n%+v", first, second)
	}
}

// The default counter is a random placeholder, so only its range is checked.
func TestPlaceholderTaskCounter_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		n := PlaceholderTaskCounter("xyro")
		if n < 20 || n >= 120 {
			t.Fatalf("placeholder = %d, want [20,120)", n)
		}
	}
}

func TestAgents_RosterIsCopied(t *testing.T) {
	root := t.TempDir()
	mkAgent(t, root, "xyro", "")
	roster := testRoster()
	c := NewAgentCollector(root, roster, nil, WithTaskCounter(func(string) int { return 0 }))
	roster["xyro"] = models.AgentProfile{ID: "xyro", Name: "Changed"}

	agents, err := c.Agents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if agents[0].Name != "Xyro" {
		t.Errorf("name = %q, roster mutation leaked into collector", agents[0].Name)
	}
}
