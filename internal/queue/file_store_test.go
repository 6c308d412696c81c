package queue_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hazardsync/internal/domain"
	"hazardsync/internal/queue"
	"hazardsync/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func newReport(t *testing.T, hazard domain.HazardType) domain.PendingReport {
	t.Helper()
	r, err := domain.NewPendingReport(domain.ReportPayload{
		HazardType: hazard,
		Severity:   domain.SeverityHigh,
		Location:   domain.Location{Lat: 14.60, Lng: 120.98, Address: domain.CoordinateLabel(14.60, 120.98)},
		Photo:      domain.Photo{Filename: "p.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
	}, time.Now())
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	return r
}

func openStore(t *testing.T, path string) *queue.FileStore {
	t.Helper()
	s, err := queue.NewFileStore(path, newTestLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestFileStore_EnqueuePreservesOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "queue.json"))

	r1 := newReport(t, domain.HazardPothole)
	r2 := newReport(t, domain.HazardFlooding)
	r3 := newReport(t, domain.HazardFire)
	for _, r := range []domain.PendingReport{r1, r2, r3} {
		if err := s.Enqueue(ctx, r); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	got, err := s.PeekAll(ctx)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if len(got) != 3 || got[0].ID != r1.ID || got[1].ID != r2.ID || got[2].ID != r3.ID {
		t.Fatalf("unexpected order: %+v", ids(got))
	}

	n, _ := s.Count(ctx)
	if n != 3 {
		t.Fatalf("expected count 3 got %d", n)
	}
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.json")

	s := openStore(t, path)
	r1 := newReport(t, domain.HazardPothole)
	r2 := newReport(t, domain.HazardLandslide)
	if err := s.Enqueue(ctx, r1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := s.Enqueue(ctx, r2); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := s.MarkAttempt(ctx, r2.ID); err != nil {
		t.Fatalf("mark attempt: %v", err)
	}

	reopened := openStore(t, path)
	got, err := reopened.PeekAll(ctx)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if len(got) != 2 || got[0].ID != r1.ID || got[1].ID != r2.ID {
		t.Fatalf("unexpected contents after restart: %v", ids(got))
	}
	if got[1].Attempts != 1 {
		t.Fatalf("attempts not persisted: %d", got[1].Attempts)
	}
	if !bytes.Equal(got[0].Photo.Data, r1.Photo.Data) {
		t.Fatalf("photo data changed across restart")
	}
	if !got[0].CapturedAt.Equal(r1.CapturedAt) {
		t.Fatalf("captured_at changed: %v vs %v", got[0].CapturedAt, r1.CapturedAt)
	}
}

func TestFileStore_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.json")
	s := openStore(t, path)

	r := newReport(t, domain.HazardPothole)
	if err := s.Enqueue(ctx, r); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := s.Remove(ctx, r.ID); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := s.Remove(ctx, r.ID); err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}
	if err := s.Remove(ctx, "never-existed"); err != nil {
		t.Fatalf("remove of unknown id: %v", err)
	}

	reopened := openStore(t, path)
	if n, _ := reopened.Count(ctx); n != 0 {
		t.Fatalf("removed report resurrected after restart, count=%d", n)
	}
}

func TestFileStore_EnqueueDuplicateID_Conflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "queue.json"))

	r := newReport(t, domain.HazardPothole)
	if err := s.Enqueue(ctx, r); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	err := s.Enqueue(ctx, r)
	if !errors.Is(err, e.ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Fatalf("expected count 1 got %d", n)
	}
}

func TestFileStore_MarkAttempt_Unknown(t *testing.T) {
	t.Parallel()
	s := openStore(t, filepath.Join(t.TempDir(), "queue.json"))

	_, err := s.MarkAttempt(context.Background(), "missing")
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestFileStore_PeekAllIsASnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "queue.json"))

	r := newReport(t, domain.HazardPothole)
	if err := s.Enqueue(ctx, r); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	snap, _ := s.PeekAll(ctx)
	snap[0].Attempts = 99

	again, _ := s.PeekAll(ctx)
	if again[0].Attempts != 0 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestFileStore_WriteFailure_IsPersistenceError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s := openStore(t, filepath.Join(dir, "queue.json"))

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}

	err := s.Enqueue(ctx, newReport(t, domain.HazardPothole))
	if !errors.Is(err, e.ErrPersistence) {
		t.Fatalf("expected ErrPersistence got %v", err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Fatalf("failed enqueue must not be visible, count=%d", n)
	}
}

func TestFileStore_CorruptFile_Refused(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "queue.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := queue.NewFileStore(path, newTestLogger())
	if !errors.Is(err, e.ErrPersistence) {
		t.Fatalf("expected ErrPersistence got %v", err)
	}
}

func TestFileStore_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.json")
	s := openStore(t, path)

	for i := 0; i < 3; i++ {
		if err := s.Enqueue(ctx, newReport(t, domain.HazardOther)); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := openStore(t, path).Count(ctx); n != 0 {
		t.Fatalf("expected empty queue after clear, got %d", n)
	}
}

func ids(rs []domain.PendingReport) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
