// Package client is a typed HTTP client for the dashboard API. It decodes
// response envelopes and turns failures into *APIError values.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Guliveer/mission-control/internal/models"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a non-JSON error body is quoted.
const maxErrorBody = 512

// Client talks to a running dashboard server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: DefaultTimeout})
}

// NewWithHTTPClient creates a client that sends requests through hc.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// APIError is a non-2xx response or an envelope with success=false.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Agents is the decoded /api/agents response.
type Agents struct {
	Agents []models.AgentRecord
	Counts models.AgentCounts
}

// Tasks is the decoded /api/tasks response.
type Tasks struct {
	Tasks  []models.TaskRecord
	Counts models.TaskCounts
}

// Crons is the decoded /api/crons response. Note is set when the server
// served fallback jobs.
type Crons struct {
	Jobs   []models.CronJob
	Counts models.CronCounts
	Note   string
	Origin models.Origin
}

// Health is the decoded /api/health payload.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// envelope mirrors models.Envelope with the payload left undecoded.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Counts  json.RawMessage `json:"counts"`
	Error   string          `json:"error"`
	Note    string          `json:"note"`
	Origin  *models.Origin  `json:"origin"`
}

// Agents fetches agent records and status counts.
func (c *Client) Agents(ctx context.Context) (*Agents, error) {
	var out Agents
	if _, err := c.get(ctx, "/api/agents", &out.Agents, &out.Counts); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tasks fetches task records and status counts.
func (c *Client) Tasks(ctx context.Context) (*Tasks, error) {
	var out Tasks
	if _, err := c.get(ctx, "/api/tasks", &out.Tasks, &out.Counts); err != nil {
		return nil, err
	}
	return &out, nil
}

// Trading fetches the trading snapshot.
func (c *Client) Trading(ctx context.Context) (*models.TradingSnapshot, error) {
	var out models.TradingSnapshot
	if _, err := c.get(ctx, "/api/trading", &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// System fetches host metrics.
func (c *Client) System(ctx context.Context) (*models.SystemMetrics, error) {
	var out models.SystemMetrics
	if _, err := c.get(ctx, "/api/system", &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Crons fetches the cron listing, live or fallback.
func (c *Client) Crons(ctx context.Context) (*Crons, error) {
	var out Crons
	env, err := c.get(ctx, "/api/crons", &out.Jobs, &out.Counts)
	if err != nil {
		return nil, err
	}
	out.Note = env.Note
	if env.Origin != nil {
		out.Origin = *env.Origin
	}
	return &out, nil
}

// Health fetches the server health payload.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if _, err := c.get(ctx, "/api/health", &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// get performs a GET and decodes the envelope's data and counts into the
// given targets. A nil target skips that field.
func (c *Client) get(ctx context.Context, path string, data, counts interface{}) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{
				Status:    resp.StatusCode,
				Message:   truncate(strings.TrimSpace(string(body)), maxErrorBody),
				RequestID: resp.Header.Get("X-Request-ID"),
			}
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return nil, &APIError{
			Status:    resp.StatusCode,
			Message:   env.Error,
			RequestID: resp.Header.Get("X-Request-ID"),
		}
	}

	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", path, err)
		}
	}
	if counts != nil && len(env.Counts) > 0 {
		if err := json.Unmarshal(env.Counts, counts); err != nil {
			return nil, fmt.Errorf("decode %s counts: %w", path, err)
		}
	}
	return &env, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
