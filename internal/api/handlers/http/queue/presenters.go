package queue

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hazardsync/pkg/e"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, e.ErrDrainInProgress):
		status = http.StatusConflict
	case errors.Is(err, e.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, e.ErrOffline), errors.Is(err, e.ErrCanceled), errors.Is(err, e.ErrDeadline):
		status = http.StatusServiceUnavailable
	case errors.Is(err, e.ErrPersistence):
		status = http.StatusInsufficientStorage
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.log(r).Error("handler error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
