// Package api serves the dashboard endpoints. Every handler reads its source
// afresh, wraps the result in a models.Envelope and writes it as JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/models"
)

// AgentLister lists agents with their derived status.
type AgentLister interface {
	Agents(ctx context.Context) ([]models.AgentRecord, error)
}

// TaskLister lists the external task records.
type TaskLister interface {
	Tasks(ctx context.Context) ([]models.TaskRecord, error)
}

// TradingReader values the trading ledger.
type TradingReader interface {
	Snapshot(ctx context.Context) (*models.TradingSnapshot, error)
}

// SystemReader reads host metrics.
type SystemReader interface {
	Metrics(ctx context.Context) (*models.SystemMetrics, error)
}

// CronLister lists scheduled jobs, falling back to a fixed set.
type CronLister interface {
	Listing(ctx context.Context) (*models.CronListing, error)
}

// Sources bundles the readers behind each endpoint.
type Sources struct {
	Agents  AgentLister
	Tasks   TaskLister
	Trading TradingReader
	System  SystemReader
	Crons   CronLister
}

// NewRouter wires the endpoints and wraps them with request ids, access
// logging and panic recovery.
func NewRouter(src Sources, version string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", healthHandler(version, time.Now))
	// Endpoints without a configured source fall through to 404.
	if src.Agents != nil {
		mux.HandleFunc("/api/agents", agentsHandler(src.Agents, logger))
	}
	if src.Tasks != nil {
		mux.HandleFunc("/api/tasks", tasksHandler(src.Tasks, logger))
	}
	if src.Trading != nil {
		mux.HandleFunc("/api/trading", tradingHandler(src.Trading, logger))
	}
	if src.System != nil {
		mux.HandleFunc("/api/system", systemHandler(src.System, logger))
	}
	if src.Crons != nil {
		mux.HandleFunc("/api/crons", cronsHandler(src.Crons, logger))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return withRequestID(withAccessLog(logger, withRecover(logger, mux)))
}
