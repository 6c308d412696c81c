package redis

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"hazardsync/internal/config"
	"hazardsync/pkg/e"
)

func TestNewRedis_UnreachableIsPersistenceFailure(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	cfg := config.RedisConfig{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond}

	start := time.Now()
	r, err := NewRedis(context.Background(), cfg, logger)
	if !errors.Is(err, e.ErrPersistence) {
		t.Fatalf("expected persistence error got %v", err)
	}
	if r != nil {
		t.Fatalf("expected no client on failure")
	}
	if took := time.Since(start); took > 5*time.Second {
		t.Fatalf("ping not bounded by timeout, took %v", took)
	}
}
