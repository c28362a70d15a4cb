// Task list collector: maps the external tasks file onto task records.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Guliveer/mission-control/internal/models"
)

// ErrNoTasks is returned when the tasks file has no "tasks" array.
var ErrNoTasks = errors.New("tasks file has no tasks array")

// subtaskMarker counts one subtask per markdown heading marker in notes.
const subtaskMarker = "##"

// TaskCollector reads a single tasks JSON document.
type TaskCollector struct {
	path string
}

// NewTaskCollector creates a collector over the tasks file at path.
func NewTaskCollector(path string) *TaskCollector {
	return &TaskCollector{path: path}
}

// Name returns the collector identifier.
func (c *TaskCollector) Name() string { return "tasks" }

// IsAvailable returns true when a tasks file is configured.
func (c *TaskCollector) IsAvailable() bool { return c.path != "" }

// Collect returns the task records.
func (c *TaskCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.Tasks(ctx)
}

// Tasks parses the tasks file. Unreadable or malformed files fail the
// whole call; there is no defaulting.
func (c *TaskCollector) Tasks(ctx context.Context) ([]models.TaskRecord, error) {
	var doc struct {
		Tasks []rawTask `json:"tasks"`
	}
	if err := readJSONFile(c.path, &doc); err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	if doc.Tasks == nil {
		return nil, ErrNoTasks
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tasks := make([]models.TaskRecord, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		tasks = append(tasks, t.record())
	}
	return tasks, nil
}

// rawTask mirrors an entry of the tasks file. Scalars are written as
// strings by some tools and as numbers or null by others.
type rawTask struct {
	ID       json.RawMessage `json:"id"`
	Title    json.RawMessage `json:"title"`
	Status   json.RawMessage `json:"status"`
	Priority json.RawMessage `json:"priority"`
	Agent    json.RawMessage `json:"agent"`
	DueAt    json.RawMessage `json:"dueAt"`
	Notes    interface{}     `json:"notes"`
}

func (t rawTask) record() models.TaskRecord {
	rec := models.TaskRecord{
		ID:       textOf(t.ID),
		Title:    textOf(t.Title),
		Status:   textOf(t.Status),
		Priority: textOf(t.Priority),
		Agent:    textOf(t.Agent),
	}
	if due := textOf(t.DueAt); due != "" {
		rec.DueAt = &due
	}
	if notes, ok := t.Notes.(string); ok && notes != "" {
		n := CountSubtasks(notes)
		rec.Subtasks = &n
	}
	return rec
}

// CountSubtasks counts non-overlapping subtask markers in notes.
func CountSubtasks(notes string) int {
	return strings.Count(notes, subtaskMarker)
}

// textOf renders a JSON scalar as text: strings unquoted, anything else
// verbatim, null as empty.
func textOf(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
