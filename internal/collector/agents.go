// Agent status collector: one record per agent directory, with liveness
// derived from the age of the agent's heartbeat file.
package collector

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/models"
)

// HeartbeatPath is the heartbeat file location relative to an agent directory.
var HeartbeatPath = filepath.Join("memory", "heartbeat-state.json")

const (
	activeWindow = time.Hour
	busyWindow   = 6 * time.Hour
)

// TaskCounter returns the completed-task count shown for an agent.
type TaskCounter func(agentID string) int

// PlaceholderTaskCounter returns a random number in [20, 120). There is no
// real counter source yet; the value is not meaningful and differs between
// calls.
func PlaceholderTaskCounter(string) int {
	return rand.Intn(100) + 20
}

// AgentOption customizes an AgentCollector.
type AgentOption func(*AgentCollector)

// WithClock sets the time source used to age heartbeats.
func WithClock(now func() time.Time) AgentOption {
	return func(c *AgentCollector) { c.now = now }
}

// WithTaskCounter sets the source of AgentRecord.TasksCompleted.
func WithTaskCounter(counter TaskCounter) AgentOption {
	return func(c *AgentCollector) { c.counter = counter }
}

// AgentCollector lists agent directories and reports their status.
type AgentCollector struct {
	root    string
	roster  map[string]models.AgentProfile
	now     func() time.Time
	counter TaskCounter
	logger  *zap.Logger
}

// NewAgentCollector creates a collector over the agents root directory.
// The roster is copied; later changes to the caller's map have no effect.
func NewAgentCollector(root string, roster map[string]models.AgentProfile, logger *zap.Logger, opts ...AgentOption) *AgentCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &AgentCollector{
		root:    root,
		roster:  make(map[string]models.AgentProfile, len(roster)),
		now:     time.Now,
		counter: PlaceholderTaskCounter,
		logger:  logger,
	}
	for id, p := range roster {
		c.roster[id] = p
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the collector identifier.
func (c *AgentCollector) Name() string { return "agents" }

// IsAvailable returns true when an agents root is configured.
func (c *AgentCollector) IsAvailable() bool { return c.root != "" }

// Collect returns the agent records.
func (c *AgentCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.Agents(ctx)
}

// Agents returns one record per subdirectory of the agents root, ordered
// by directory name. A root that cannot be listed fails the whole call.
func (c *AgentCollector) Agents(ctx context.Context) ([]models.AgentRecord, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}

	now := c.now()
	agents := make([]models.AgentRecord, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := filepath.Join(c.root, entry.Name())
		// Stat follows symlinks, so a linked agent directory still counts.
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		profile := c.profile(entry.Name())
		status, lastActive := c.status(dir, now)
		agents = append(agents, models.AgentRecord{
			AgentProfile:   profile,
			Status:         status,
			LastActive:     lastActive,
			TasksCompleted: c.counter(profile.ID),
		})
	}
	return agents, nil
}

func (c *AgentCollector) profile(dir string) models.AgentProfile {
	if p, ok := c.roster[dir]; ok {
		return p
	}
	return models.AgentProfile{
		ID:        dir,
		Name:      capitalize(dir),
		Role:      "Unknown",
		Specialty: "Unknown",
		Emoji:     "🤖",
	}
}

// status derives the agent status and a relative "last active" label.
// A missing or malformed heartbeat yields idle.
func (c *AgentCollector) status(dir string, now time.Time) (string, string) {
	path := filepath.Join(dir, HeartbeatPath)
	var hb heartbeat
	if err := readJSONFile(path, &hb); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Debug("Unreadable heartbeat",
				zap.String("file", path),
				zap.Error(err))
		}
		return models.StatusIdle, "never"
	}

	last, ok := hb.lastActive()
	if !ok {
		return models.StatusIdle, "never"
	}
	return StatusForAge(now.Sub(last)), humanize.RelTime(last, now, "ago", "from now")
}

// StatusForAge maps the time since the last heartbeat to a status.
// A heartbeat in the future counts as active.
func StatusForAge(elapsed time.Duration) string {
	switch {
	case elapsed < activeWindow:
		return models.StatusActive
	case elapsed < busyWindow:
		return models.StatusBusy
	default:
		return models.StatusIdle
	}
}

// heartbeat is the subset of the heartbeat-state file we read.
type heartbeat struct {
	LastActivity interface{} `json:"lastActivity"`
	LastChecks   *struct {
		Email interface{} `json:"email"`
	} `json:"lastChecks"`
}

// lastActive picks lastActivity, falling back to lastChecks.email when the
// primary field is absent or empty. Numbers are Unix milliseconds; strings
// are RFC 3339.
func (h heartbeat) lastActive() (time.Time, bool) {
	if present(h.LastActivity) {
		return parseTimestamp(h.LastActivity)
	}
	if h.LastChecks != nil && present(h.LastChecks.Email) {
		return parseTimestamp(h.LastChecks.Email)
	}
	return time.Time{}, false
}

func present(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func parseTimestamp(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case float64:
		return time.UnixMilli(int64(x)), true
	case string:
		t, err := time.Parse(time.RFC3339, x)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
