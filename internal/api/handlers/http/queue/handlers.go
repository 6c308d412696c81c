package queue

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hazardsync/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type PendingReports interface {
	List(ctx context.Context) ([]domain.QueuedReport, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
}

type Syncer interface {
	SyncNow(ctx context.Context) (domain.DrainSummary, error)
}

type Handler struct {
	logger  *slog.Logger
	Pending PendingReports
	Sync    Syncer
}

func NewHandler(logger *slog.Logger, pending PendingReports, sync Syncer) *Handler {
	return &Handler{
		logger:  logger,
		Pending: pending,
		Sync:    sync,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) QueueList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Pending.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) QueueRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.Pending.Remove(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) QueueClear(w http.ResponseWriter, r *http.Request) {
	n, err := h.Pending.Clear(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.log(r).Warn("queue cleared", slog.Int("discarded", n))
	writeJSON(w, http.StatusOK, map[string]int{"discarded": n})
}

func (h *Handler) SyncNow(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Sync.SyncNow(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
