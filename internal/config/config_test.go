package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QUEUE_BACKEND", "")
	t.Setenv("INGEST_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Queue.Backend != QueueBackendFile {
		t.Fatalf("expected file backend, got %q", cfg.Queue.Backend)
	}
	if cfg.Ingest.Timeout != 20*time.Second {
		t.Fatalf("unexpected ingest timeout %v", cfg.Ingest.Timeout)
	}
	if cfg.Identity.Authenticated() {
		t.Fatalf("expected unauthenticated identity by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUEUE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("INGEST_TIMEOUT", "3s")
	t.Setenv("SYNC_RATE_PER_SECOND", "0.5")
	t.Setenv("PHOTO_MAX_BYTES", "1048576")
	t.Setenv("REPORTER_NAME", "Ana")
	t.Setenv("REDIS_TIMEOUT", "750ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Queue.Backend != QueueBackendRedis || cfg.Redis.Addr != "cache:6379" {
		t.Fatalf("redis overrides not applied: %+v", cfg.Redis)
	}
	if cfg.Redis.Timeout != 750*time.Millisecond {
		t.Fatalf("expected 750ms redis timeout got %v", cfg.Redis.Timeout)
	}
	if cfg.Ingest.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout got %v", cfg.Ingest.Timeout)
	}
	if cfg.Sync.RatePerSecond != 0.5 {
		t.Fatalf("expected rate 0.5 got %v", cfg.Sync.RatePerSecond)
	}
	if cfg.Photo.MaxBytes != 1<<20 {
		t.Fatalf("expected 1MiB got %d", cfg.Photo.MaxBytes)
	}
	if !cfg.Identity.Authenticated() {
		t.Fatalf("expected authenticated identity")
	}
}

func TestLoad_InvalidValueFallsBackToDefault(t *testing.T) {
	t.Setenv("SYNC_ATTENTION_AFTER", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Sync.AttentionAfter != 5 {
		t.Fatalf("expected default 5 got %d", cfg.Sync.AttentionAfter)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Http:         HttpConfig{Port: ":8080"},
			Queue:        QueueConfig{Backend: QueueBackendFile, FilePath: "q.json"},
			Ingest:       IngestConfig{URL: "http://example.com/reports", Timeout: time.Second},
			Sync:         SyncConfig{AttentionAfter: 1},
			Connectivity: ConnectivityConfig{ProbeInterval: time.Second},
			Photo:        PhotoConfig{MaxBytes: 1024, MaxDimension: 512},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port without colon", mutate: func(c *Config) { c.Http.Port = "8080" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Queue.Backend = "sqlite" }, wantErr: true},
		{name: "relative ingest url", mutate: func(c *Config) { c.Ingest.URL = "/reports" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Ingest.Timeout = 0 }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.Sync.RatePerSecond = -1 }, wantErr: true},
		{name: "tiny dimension", mutate: func(c *Config) { c.Photo.MaxDimension = 10 }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) {
			c.Queue.Backend = QueueBackendPostgres
			c.Postgres.Host = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v got %v", tt.wantErr, err)
			}
		})
	}
}
