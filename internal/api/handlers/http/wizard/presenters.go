package wizard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hazardsync/pkg/e"
)

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	var ve *e.ValidationError
	switch {
	case errors.As(err, &ve):
		l.Info("capture rejected", slog.String("field", ve.Field), slog.String("reason", ve.Reason))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Field: ve.Field, Reason: ve.Reason})
	case errors.Is(err, e.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrInvalidInput):
		l.Warn("bad request", slog.Any("error", err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrWrongStep), errors.Is(err, e.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrPersistence):
		l.Error("report could not be saved", slog.Any("error", err))
		writeJSON(w, http.StatusInsufficientStorage, errorResponse{Error: "report could not be saved on this device"})
	default:
		l.Error("handler error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
