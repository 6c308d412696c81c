package system

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"hazardsync/internal/connectivity"
	"hazardsync/internal/domain"
)

//go:generate mockgen -source=health.go -destination=mocks/mock.go
type Connectivity interface {
	Status() connectivity.Status
	Set(online bool) bool
}

type Notices interface {
	Recent(limit int) []domain.Notice
}

type PendingCounter interface {
	Count(ctx context.Context) (int, error)
}

type DrainState interface {
	Draining() bool
}

type Handler struct {
	logger  *slog.Logger
	conn    Connectivity
	notices Notices
	pending PendingCounter
	drain   DrainState
}

func NewHandler(logger *slog.Logger, conn Connectivity, notices Notices, pending PendingCounter, drain DrainState) *Handler {
	return &Handler{
		logger:  logger,
		conn:    conn,
		notices: notices,
		pending: pending,
		drain:   drain,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Online   bool   `json:"online"`
	Pending  int    `json:"pending"`
	Draining bool   `json:"draining"`
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	n, err := h.pending.Count(r.Context())
	if err != nil {
		h.logger.Error("health: queue unreadable", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "queue unavailable", Online: h.conn.Status().Online})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Online:   h.conn.Status().Online,
		Pending:  n,
		Draining: h.drain.Draining(),
	})
}

func (h *Handler) ConnectivityGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.conn.Status())
}

type connectivitySignal struct {
	Online *bool `json:"online"`
}

// ConnectivitySet accepts the platform's own reachability signal.
func (h *Handler) ConnectivitySet(w http.ResponseWriter, r *http.Request) {
	var req connectivitySignal
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil || req.Online == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `expected {"online": true|false}`})
		return
	}
	if h.conn.Set(*req.Online) {
		h.logger.Info("connectivity signal", slog.Bool("online", *req.Online))
	}
	writeJSON(w, http.StatusOK, h.conn.Status())
}

func (h *Handler) NoticesList(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		limit = 0
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": h.notices.Recent(limit)})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
