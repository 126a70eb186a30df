package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/memocast/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// writeError renders a classified error as {error, hint?, ...details}.
// Unclassified errors become a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	body := make(map[string]interface{}, len(appErr.Details)+2)
	for k, v := range appErr.Details {
		body[k] = v
	}
	body["error"] = appErr.Message
	if appErr.Hint != "" {
		body["hint"] = appErr.Hint
	}
	writeJSON(w, appErr.HTTPStatus(), body)
}
