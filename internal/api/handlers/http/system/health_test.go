package system_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/golang/mock/gomock"

	"hazardsync/internal/api/handlers/http/system"
	mock_system "hazardsync/internal/api/handlers/http/system/mocks"
	"hazardsync/internal/connectivity"
	"hazardsync/internal/domain"
	"hazardsync/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

type mocks struct {
	conn    *mock_system.MockConnectivity
	notices *mock_system.MockNotices
	pending *mock_system.MockPendingCounter
	drain   *mock_system.MockDrainState
}

func newHandler(t *testing.T) (*system.Handler, mocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks{
		conn:    mock_system.NewMockConnectivity(ctrl),
		notices: mock_system.NewMockNotices(ctrl),
		pending: mock_system.NewMockPendingCounter(ctrl),
		drain:   mock_system.NewMockDrainState(ctrl),
	}
	return system.NewHandler(newTestLogger(), m.conn, m.notices, m.pending, m.drain), m
}

func TestSystemHealth_OK(t *testing.T) {
	t.Parallel()

	h, m := newHandler(t)
	m.pending.EXPECT().Count(gomock.Any()).Return(3, nil)
	m.conn.EXPECT().Status().Return(connectivity.Status{Online: true})
	m.drain.EXPECT().Draining().Return(false)

	rr := httptest.NewRecorder()
	h.SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["pending"] != float64(3) || got["online"] != true {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestSystemHealth_QueueUnavailable(t *testing.T) {
	t.Parallel()

	h, m := newHandler(t)
	m.pending.EXPECT().Count(gomock.Any()).Return(0, e.ErrPersistence)
	m.conn.EXPECT().Status().Return(connectivity.Status{})

	rr := httptest.NewRecorder()
	h.SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected %d got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestConnectivitySet(t *testing.T) {
	t.Parallel()

	h, m := newHandler(t)
	m.conn.EXPECT().Set(true).Return(true)
	m.conn.EXPECT().Status().Return(connectivity.Status{Online: true, Since: time.Now()})

	rr := httptest.NewRecorder()
	h.ConnectivitySet(rr, httptest.NewRequest(http.MethodPut, "/api/v1/connectivity", bytes.NewBufferString(`{"online":true}`)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestConnectivitySet_MissingField_400(t *testing.T) {
	t.Parallel()

	h, m := newHandler(t)
	m.conn.EXPECT().Set(gomock.Any()).Times(0)

	rr := httptest.NewRecorder()
	h.ConnectivitySet(rr, httptest.NewRequest(http.MethodPut, "/api/v1/connectivity", bytes.NewBufferString(`{}`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestNoticesList(t *testing.T) {
	t.Parallel()

	h, m := newHandler(t)
	m.notices.EXPECT().Recent(5).Return([]domain.Notice{{Kind: domain.NoticeSynced, Message: "2 reports synced successfully."}})

	rr := httptest.NewRecorder()
	h.NoticesList(rr, httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=5", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	var got struct {
		Items []domain.Notice `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil || len(got.Items) != 1 {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}
