package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	QueueBackendFile     = "file"
	QueueBackendRedis    = "redis"
	QueueBackendPostgres = "postgres"
)

type Config struct {
	Env          string             `json:"env"`
	Http         HttpConfig         `json:"http"`
	Queue        QueueConfig        `json:"queue"`
	Postgres     PostgresConfig     `json:"postgres"`
	Redis        RedisConfig        `json:"redis"`
	Ingest       IngestConfig       `json:"ingest"`
	Sync         SyncConfig         `json:"sync"`
	Connectivity ConnectivityConfig `json:"connectivity"`
	Photo        PhotoConfig        `json:"photo"`
	Geocode      GeocodeConfig      `json:"geocode"`
	Identity     IdentityConfig     `json:"identity"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type QueueConfig struct {
	Backend  string `json:"backend"`
	FilePath string `json:"file_path"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	// Timeout bounds dialing and each command.
	Timeout time.Duration `json:"timeout"`
	// AddressCache enables caching of reverse-geocoded addresses in Redis.
	AddressCache bool `json:"address_cache"`
}

type IngestConfig struct {
	URL       string        `json:"url"`
	HealthURL string        `json:"health_url"`
	Token     string        `json:"token,omitempty"`
	Timeout   time.Duration `json:"timeout"`
}

type SyncConfig struct {
	Interval       time.Duration `json:"interval"`
	RatePerSecond  float64       `json:"rate_per_second"`
	AttentionAfter int           `json:"attention_after"`
}

type ConnectivityConfig struct {
	ProbeInterval time.Duration `json:"probe_interval"`
	ProbeTimeout  time.Duration `json:"probe_timeout"`
}

type PhotoConfig struct {
	MaxBytes     int64 `json:"max_bytes"`
	MaxDimension int   `json:"max_dimension"`
	MaxPixels    int64 `json:"max_pixels"`
}

type GeocodeConfig struct {
	URL       string        `json:"url"`
	Timeout   time.Duration `json:"timeout"`
	CacheTTL  time.Duration `json:"cache_ttl"`
	UserAgent string        `json:"user_agent"`
}

// IdentityConfig binds a signed-in reporter to every capture. When Name is
// empty the device is treated as unauthenticated and the contact step is shown.
type IdentityConfig struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

func (i IdentityConfig) Authenticated() bool {
	return i.Name != ""
}

func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Queue: QueueConfig{
			Backend:  getEnv("QUEUE_BACKEND", QueueBackendFile),
			FilePath: getEnv("QUEUE_FILE", "data/pending_reports.json"),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "hazardsync"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			Timeout:      getEnvDuration("REDIS_TIMEOUT", 3*time.Second),
			AddressCache: getEnvBool("REDIS_ADDRESS_CACHE", false),
		},
		Ingest: IngestConfig{
			URL:       getEnv("INGEST_URL", "http://localhost:3005/api/reports"),
			HealthURL: getEnv("INGEST_HEALTH_URL", "http://localhost:3005/healthz"),
			Token:     getEnv("INGEST_TOKEN", ""),
			Timeout:   getEnvDuration("INGEST_TIMEOUT", 20*time.Second),
		},
		Sync: SyncConfig{
			Interval:       getEnvDuration("SYNC_INTERVAL", 5*time.Minute),
			RatePerSecond:  getEnvFloat("SYNC_RATE_PER_SECOND", 2),
			AttentionAfter: getEnvInt("SYNC_ATTENTION_AFTER", 5),
		},
		Connectivity: ConnectivityConfig{
			ProbeInterval: getEnvDuration("CONNECTIVITY_PROBE_INTERVAL", 15*time.Second),
			ProbeTimeout:  getEnvDuration("CONNECTIVITY_PROBE_TIMEOUT", 5*time.Second),
		},
		Photo: PhotoConfig{
			MaxBytes:     getEnvInt64("PHOTO_MAX_BYTES", 5<<20),
			MaxDimension: getEnvInt("PHOTO_MAX_DIMENSION", 1920),
			MaxPixels:    getEnvInt64("PHOTO_MAX_PIXELS", 50_000_000),
		},
		Geocode: GeocodeConfig{
			URL:       getEnv("GEOCODE_URL", ""),
			Timeout:   getEnvDuration("GEOCODE_TIMEOUT", 4*time.Second),
			CacheTTL:  getEnvDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
			UserAgent: getEnv("GEOCODE_USER_AGENT", "hazardsync-agent/1.0"),
		},
		Identity: IdentityConfig{
			Name:    getEnv("REPORTER_NAME", ""),
			Contact: getEnv("REPORTER_CONTACT", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("queue_backend", cfg.Queue.Backend),
		slog.String("ingest_url", cfg.Ingest.URL),
		slog.Bool("authenticated", cfg.Identity.Authenticated()))

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	switch c.Queue.Backend {
	case QueueBackendFile:
		if c.Queue.FilePath == "" {
			return errors.New("QUEUE_FILE required for file queue backend")
		}
	case QueueBackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR required for redis queue backend")
		}
	case QueueBackendPostgres:
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST required for postgres queue backend")
		}
	default:
		return fmt.Errorf("QUEUE_BACKEND must be one of file, redis, postgres; got %q", c.Queue.Backend)
	}

	if u, err := url.Parse(c.Ingest.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("INGEST_URL must be an absolute URL, got %q", c.Ingest.URL)
	}
	if c.Ingest.Timeout <= 0 {
		return errors.New("INGEST_TIMEOUT must be positive")
	}
	if c.Sync.RatePerSecond < 0 {
		return errors.New("SYNC_RATE_PER_SECOND must not be negative")
	}
	if c.Sync.AttentionAfter < 1 {
		return fmt.Errorf("SYNC_ATTENTION_AFTER must be at least 1, got %d", c.Sync.AttentionAfter)
	}
	if c.Connectivity.ProbeInterval <= 0 {
		return errors.New("CONNECTIVITY_PROBE_INTERVAL must be positive")
	}
	if c.Photo.MaxBytes < 1 {
		return fmt.Errorf("PHOTO_MAX_BYTES must be positive, got %d", c.Photo.MaxBytes)
	}
	if c.Photo.MaxDimension < 64 {
		return fmt.Errorf("PHOTO_MAX_DIMENSION must be at least 64, got %d", c.Photo.MaxDimension)
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
