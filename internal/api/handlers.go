package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/collector"
	"github.com/Guliveer/mission-control/internal/models"
)

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func healthHandler(version string, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeData(w, HealthStatus{
			Status:    "ok",
			Version:   version,
			Timestamp: now().UTC().Format(time.RFC3339),
		})
	}
}

func agentsHandler(src AgentLister, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		agents, err := src.Agents(r.Context())
		if err != nil {
			internalError(w, r, logger, "agents", err)
			return
		}
		writeJSON(w, http.StatusOK, models.Envelope{
			Success: true,
			Data:    agents,
			Counts:  models.CountAgents(agents),
		})
	}
}

func tasksHandler(src TaskLister, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		tasks, err := src.Tasks(r.Context())
		if err != nil {
			internalError(w, r, logger, "tasks", err)
			return
		}
		writeJSON(w, http.StatusOK, models.Envelope{
			Success: true,
			Data:    tasks,
			Counts:  models.CountTasks(tasks),
		})
	}
}

func tradingHandler(src TradingReader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		snap, err := src.Snapshot(r.Context())
		if err != nil {
			internalError(w, r, logger, "trading", err)
			return
		}
		writeData(w, snap)
	}
}

func systemHandler(src SystemReader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		metrics, err := src.Metrics(r.Context())
		if err != nil {
			internalError(w, r, logger, "system", err)
			return
		}
		writeData(w, metrics)
	}
}

// cronsHandler never reports failure for a missing CLI: the listing then
// carries the fallback jobs, and the envelope gets a note and the origin.
func cronsHandler(src CronLister, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		listing, err := src.Listing(r.Context())
		if err != nil {
			internalError(w, r, logger, "crons", err)
			return
		}
		origin := listing.Origin
		env := models.Envelope{
			Success: true,
			Data:    listing.Jobs,
			Counts:  models.CountCrons(listing.Jobs),
			Origin:  &origin,
		}
		if origin.IsFallback() {
			env.Note = collector.FallbackNote
		}
		writeJSON(w, http.StatusOK, env)
	}
}
