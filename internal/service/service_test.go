package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"hazardsync/internal/domain"
	"hazardsync/internal/queue"
	"hazardsync/internal/service"
	mock_service "hazardsync/internal/service/mocks"
	"hazardsync/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func potholePayload() domain.ReportPayload {
	return domain.ReportPayload{
		HazardType: domain.HazardPothole,
		Severity:   domain.SeverityHigh,
		Location:   domain.Location{Lat: 14.60, Lng: 120.98, Address: domain.CoordinateLabel(14.60, 120.98)},
		Photo:      domain.Photo{Filename: "hole.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
	}
}

func TestService_Delegates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sub := mock_service.NewMockSubmissionService(ctrl)
	q := mock_service.NewMockQueueService(ctrl)
	sync := mock_service.NewMockSyncService(ctrl)

	want := domain.SubmitResult{Status: domain.SubmitQueued, LocalID: "id-1"}
	sub.EXPECT().Submit(gomock.Any(), potholePayload()).Return(want, nil).Times(1)
	q.EXPECT().Clear(gomock.Any()).Return(3, nil).Times(1)
	sync.EXPECT().SyncNow(gomock.Any()).Return(domain.DrainSummary{Succeeded: 2, Failed: 1}, nil).Times(1)

	svc := service.NewService(sub, q, sync)

	got, err := svc.Submit(context.Background(), potholePayload())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected response: got=%+v want=%+v", got, want)
	}
	if n, err := svc.Clear(context.Background()); err != nil || n != 3 {
		t.Fatalf("clear: n=%d err=%v", n, err)
	}
	if s, err := svc.SyncNow(context.Background()); err != nil || s.Total() != 3 {
		t.Fatalf("sync: %+v err=%v", s, err)
	}
}

func TestSubmit_OfflineEnqueuesDurably(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mock_service.NewMockReportSender(ctrl)
	conn := mock_service.NewMockConnectivityChecker(ctrl)
	notifier := mock_service.NewMockNotifier(ctrl)

	store, err := queue.NewFileStore(filepath.Join(t.TempDir(), "queue.json"), newTestLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	conn.EXPECT().IsOnline().Return(false)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)
	notifier.EXPECT().Publish(domain.NoticeSavedOffline, service.NoticeSavedOffline).Times(1)

	svc := service.NewSubmissionService(sender, conn, store, notifier, newTestLogger())

	res, err := svc.Submit(context.Background(), potholePayload())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != domain.SubmitQueued || res.Notice != service.NoticeSavedOffline {
		t.Fatalf("unexpected result %+v", res)
	}

	n, err := store.Count(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected count 1 got %d (err=%v)", n, err)
	}

	got, err := store.Get(context.Background(), res.LocalID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HazardType != domain.HazardPothole || got.Location.Lat != 14.60 || got.Attempts != 0 {
		t.Fatalf("unexpected queued report %+v", got)
	}
}

func TestSubmit_OnlineDelivered(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mock_service.NewMockReportSender(ctrl)
	conn := mock_service.NewMockConnectivityChecker(ctrl)
	q := mock_service.NewMockReportQueue(ctrl)
	notifier := mock_service.NewMockNotifier(ctrl)

	conn.EXPECT().IsOnline().Return(true)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r domain.PendingReport) (domain.IngestReceipt, error) {
			if r.ID == "" || r.CapturedAt.IsZero() {
				t.Errorf("report not stamped: %+v", r)
			}
			return domain.IngestReceipt{ServerID: "srv-9"}, nil
		})
	q.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Times(0)
	notifier.EXPECT().Publish(domain.NoticeDelivered, gomock.Any())

	svc := service.NewSubmissionService(sender, conn, q, notifier, newTestLogger())

	res, err := svc.Submit(context.Background(), potholePayload())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != domain.SubmitDelivered || res.ServerID != "srv-9" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSubmit_OnlineFailureFallsBackToQueue(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mock_service.NewMockReportSender(ctrl)
	conn := mock_service.NewMockConnectivityChecker(ctrl)
	q := mock_service.NewMockReportQueue(ctrl)
	notifier := mock_service.NewMockNotifier(ctrl)

	var sentID string
	conn.EXPECT().IsOnline().Return(true)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r domain.PendingReport) (domain.IngestReceipt, error) {
			sentID = r.ID
			return domain.IngestReceipt{}, e.ErrDelivery
		})
	q.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r domain.PendingReport) error {
			if r.ID != sentID {
				t.Errorf("queued report must keep the id used for the direct send")
			}
			if r.Attempts != 1 {
				t.Errorf("expected attempts 1 got %d", r.Attempts)
			}
			return nil
		})
	notifier.EXPECT().Publish(domain.NoticeSavedOffline, service.NoticeSavedOffline)

	svc := service.NewSubmissionService(sender, conn, q, notifier, newTestLogger())

	res, err := svc.Submit(context.Background(), potholePayload())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != domain.SubmitQueued || res.LocalID != sentID {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSubmit_CancelledCallerStillPersists(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mock_service.NewMockReportSender(ctrl)
	conn := mock_service.NewMockConnectivityChecker(ctrl)
	q := mock_service.NewMockReportQueue(ctrl)
	notifier := mock_service.NewMockNotifier(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	conn.EXPECT().IsOnline().Return(true)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.PendingReport) (domain.IngestReceipt, error) {
			cancel()
			return domain.IngestReceipt{}, ctx.Err()
		})
	q.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.PendingReport) error {
			if ctx.Err() != nil {
				t.Errorf("enqueue must not inherit caller cancellation")
			}
			return nil
		})
	notifier.EXPECT().Publish(gomock.Any(), gomock.Any())

	svc := service.NewSubmissionService(sender, conn, q, notifier, newTestLogger())
	if _, err := svc.Submit(ctx, potholePayload()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSubmit_PersistenceFailureSurfaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		storeErr error
	}{
		{name: "typed", storeErr: e.ErrPersistence},
		{name: "untyped", storeErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			sender := mock_service.NewMockReportSender(ctrl)
			conn := mock_service.NewMockConnectivityChecker(ctrl)
			q := mock_service.NewMockReportQueue(ctrl)
			notifier := mock_service.NewMockNotifier(ctrl)

			conn.EXPECT().IsOnline().Return(false)
			q.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(tt.storeErr)
			notifier.EXPECT().Publish(domain.NoticePersistenceFailed, gomock.Any()).Times(1)

			svc := service.NewSubmissionService(sender, conn, q, notifier, newTestLogger())

			res, err := svc.Submit(context.Background(), potholePayload())
			if !errors.Is(err, e.ErrPersistence) {
				t.Fatalf("expected persistence error got %v", err)
			}
			if res.Status != "" {
				t.Fatalf("failed submission must not report a status, got %+v", res)
			}
		})
	}
}

func TestQueueService_ListFlagsAttention(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	q := mock_service.NewMockReportQueue(ctrl)

	now := time.Now()
	items := []domain.PendingReport{
		{ID: "a", HazardType: domain.HazardFire, Attempts: 0, CapturedAt: now},
		{ID: "b", HazardType: domain.HazardFire, Attempts: 5, CapturedAt: now, Reporter: domain.Reporter{Name: "x"}},
	}
	q.EXPECT().PeekAll(gomock.Any()).Return(items, nil)

	svc := service.NewQueueService(q, 5, newTestLogger())

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected listing %+v", got)
	}
	if got[0].NeedsAttention || !got[1].NeedsAttention {
		t.Fatalf("attention flags wrong: %+v", got)
	}
	if !got[0].Anonymous || got[1].Anonymous {
		t.Fatalf("anonymous flags wrong: %+v", got)
	}
}

func TestQueueService_Clear(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	q := mock_service.NewMockReportQueue(ctrl)
	gomock.InOrder(
		q.EXPECT().Count(gomock.Any()).Return(2, nil),
		q.EXPECT().Clear(gomock.Any()).Return(nil),
	)

	n, err := service.NewQueueService(q, 5, newTestLogger()).Clear(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("expected 2 discarded got %d (err=%v)", n, err)
	}
}

func TestSyncNow_OfflineDoesNotDrain(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	drainer := mock_service.NewMockDrainer(ctrl)
	conn := mock_service.NewMockConnectivityChecker(ctrl)

	conn.EXPECT().IsOnline().Return(false)
	drainer.EXPECT().Drain(gomock.Any()).Times(0)

	_, err := service.NewSyncService(drainer, conn).SyncNow(context.Background())
	if !errors.Is(err, e.ErrOffline) {
		t.Fatalf("expected offline error got %v", err)
	}
}

func TestSyncNow_OnlineDrains(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	drainer := mock_service.NewMockDrainer(ctrl)
	conn := mock_service.NewMockConnectivityChecker(ctrl)

	conn.EXPECT().IsOnline().Return(true)
	drainer.EXPECT().Drain(gomock.Any()).Return(domain.DrainSummary{Succeeded: 1}, nil)

	got, err := service.NewSyncService(drainer, conn).SyncNow(context.Background())
	if err != nil || got.Succeeded != 1 {
		t.Fatalf("sync: %+v err=%v", got, err)
	}
}
