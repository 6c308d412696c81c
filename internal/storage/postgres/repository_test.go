//go:build integration

package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"hazardsync/internal/domain"
	"hazardsync/pkg/e"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := EnsureSchema(ctx, testPool); err != nil {
		fmt.Println("EnsureSchema:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func truncateReports(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE pending_reports RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("truncate pending_reports: %v", err)
	}
}

func newQueue() *ReportQueue {
	return NewReportQueue(testPool, slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)))
}

func newReport(t *testing.T, hazard domain.HazardType) domain.PendingReport {
	t.Helper()
	r, err := domain.NewPendingReport(domain.ReportPayload{
		HazardType: hazard,
		Severity:   domain.SeverityMedium,
		Location:   domain.Location{Lat: 14.60, Lng: 120.98, Address: "Manila"},
		Photo:      domain.Photo{Filename: "a.png", ContentType: "image/png", Data: []byte{9, 8, 7}},
	}, time.Now())
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	return r
}

func TestReportQueue_EnqueuePeekOrder(t *testing.T) {
	truncateReports(t)
	ctx := context.Background()
	q := newQueue()

	r1 := newReport(t, domain.HazardPothole)
	r2 := newReport(t, domain.HazardFlooding)
	for _, r := range []domain.PendingReport{r1, r2} {
		if err := q.Enqueue(ctx, r); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	got, err := q.PeekAll(ctx)
	if err != nil {
		t.Fatalf("PeekAll: %v", err)
	}
	if len(got) != 2 || got[0].ID != r1.ID || got[1].ID != r2.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !bytes.Equal(got[0].Photo.Data, r1.Photo.Data) {
		t.Fatalf("photo mismatch")
	}
}

func TestReportQueue_DuplicateID_Conflict(t *testing.T) {
	truncateReports(t)
	ctx := context.Background()
	q := newQueue()

	r := newReport(t, domain.HazardPothole)
	if err := q.Enqueue(ctx, r); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Enqueue(ctx, r); !errors.Is(err, e.ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}
}

func TestReportQueue_RemoveIdempotent_MarkAttempt(t *testing.T) {
	truncateReports(t)
	ctx := context.Background()
	q := newQueue()

	r := newReport(t, domain.HazardFire)
	if err := q.Enqueue(ctx, r); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	n, err := q.MarkAttempt(ctx, r.ID)
	if err != nil || n != 1 {
		t.Fatalf("MarkAttempt: n=%d err=%v", n, err)
	}
	got, err := q.Get(ctx, r.ID)
	if err != nil || got.Attempts != 1 {
		t.Fatalf("Get: attempts=%d err=%v", got.Attempts, err)
	}

	if err := q.Remove(ctx, r.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := q.Remove(ctx, r.ID); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if _, err := q.Get(ctx, r.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if _, err := q.MarkAttempt(ctx, r.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if c, _ := q.Count(ctx); c != 0 {
		t.Fatalf("expected count 0 got %d", c)
	}
}
