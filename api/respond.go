package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/madanco/crewdeck/pkg/repository"
)

func writeJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, map[string]string{"error": message}, status)
}

// writeStoreError maps repository failures at the boundary: missing records
// become 404, everything else is a logged generic 500.
func writeStoreError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	logger.Error(action, slog.Any("err", err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
