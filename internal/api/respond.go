package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.Envelope{Success: false, Error: message})
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// internalError logs a failed read and answers with a 500 envelope
// carrying the error text.
func internalError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, source string, err error) {
	logger.Error("Source read failed",
		zap.String("source", source),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}
