package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"hazardsync/internal/api"
	"hazardsync/internal/capture"
	"hazardsync/internal/config"
	"hazardsync/internal/connectivity"
	"hazardsync/internal/domain"
	"hazardsync/internal/geocode"
	"hazardsync/internal/ingest"
	"hazardsync/internal/notify"
	"hazardsync/internal/photo"
	"hazardsync/internal/queue"
	"hazardsync/internal/redis"
	"hazardsync/internal/service"
	"hazardsync/internal/storage/postgres"
	"hazardsync/internal/workers"
	"hazardsync/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Syncer     *workers.Syncer
	Probe      *workers.ConnectivityProbe
	Monitor    *connectivity.Monitor
	Store      queue.Store
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{logger: logger}

	if cfg.Queue.Backend == config.QueueBackendRedis || cfg.Redis.AddressCache {
		logger.Info("Initializing Redis")
		r, err := redis.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		c.Redis = r
	}

	store, err := c.initStore(ctx, cfg)
	if err != nil {
		c.ShutdownAll()
		return nil, err
	}
	c.Store = store

	pending, err := store.Count(ctx)
	if err != nil {
		c.ShutdownAll()
		return nil, fmt.Errorf("failed to read pending queue: %w", err)
	}
	logger.Info("Pending queue opened",
		slog.String("backend", cfg.Queue.Backend),
		slog.Int("pending", pending))

	feed := notify.NewFeed(notify.DefaultCapacity, logger)
	ingestClient := ingest.NewClient(cfg.Ingest, logger)

	// without a health endpoint the platform's own signal is the only input
	c.Monitor = connectivity.NewMonitor(cfg.Ingest.HealthURL == "", logger)
	if cfg.Ingest.HealthURL != "" {
		c.Probe = workers.NewConnectivityProbe(ingestClient, c.Monitor,
			cfg.Connectivity.ProbeInterval, cfg.Connectivity.ProbeTimeout, logger)
	}

	c.Syncer = workers.NewSyncer(store, ingestClient, feed, c.Monitor, workers.SyncOptions{
		Interval:       cfg.Sync.Interval,
		RatePerSecond:  cfg.Sync.RatePerSecond,
		AttentionAfter: cfg.Sync.AttentionAfter,
		AttemptTimeout: cfg.Ingest.Timeout,
	}, logger)

	var cache geocode.Cache
	if c.Redis != nil && cfg.Redis.AddressCache {
		cache = redis.NewAddressCache(c.Redis, cfg.Geocode.CacheTTL)
	}
	var geocoder geocode.Resolver = geocode.Fallback{}
	if cfg.Geocode.URL != "" {
		geocoder = geocode.NewClient(cfg.Geocode, cache, logger)
	} else {
		logger.Info("reverse geocoding disabled, using coordinate labels")
	}

	submissionSvc := service.NewSubmissionService(ingestClient, c.Monitor, store, feed, logger)
	queueSvc := service.NewQueueService(store, cfg.Sync.AttentionAfter, logger)
	syncSvc := service.NewSyncService(c.Syncer, c.Monitor)
	srv := service.NewService(submissionSvc, queueSvc, syncSvc)

	var identity *domain.Reporter
	if cfg.Identity.Authenticated() {
		identity = &domain.Reporter{Name: cfg.Identity.Name, Contact: cfg.Identity.Contact}
	}
	machine := capture.NewMachine(geocoder, srv, capture.Options{
		Identity: identity,
		Photo: photo.Constraints{
			MaxBytes:     cfg.Photo.MaxBytes,
			MaxDimension: cfg.Photo.MaxDimension,
			MaxPixels:    cfg.Photo.MaxPixels,
		},
		LookupTimeout: cfg.Geocode.Timeout,
	}, logger)

	c.HttpServer = api.NewServer(ctx, cfg, logger, api.Deps{
		Service: srv,
		Wizard:  machine,
		Conn:    c.Monitor,
		Notices: feed,
		Pending: store,
		Drain:   c.Syncer,
	})
	logger.Info("Initialized server")

	return c, nil
}

func (c *Components) initStore(ctx context.Context, cfg *config.Config) (queue.Store, error) {
	switch cfg.Queue.Backend {
	case config.QueueBackendRedis:
		return redis.NewReportQueue(c.Redis.Client, queue.Namespace, c.logger), nil

	case config.QueueBackendPostgres:
		c.logger.Info("Initializing Postgres")
		pg, err := postgres.NewPostgres(ctx, cfg.Postgres, c.logger)
		if err != nil {
			c.logger.Error("Failed to init postgres", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		c.Postgres = pg
		return pg.Reports, nil

	default:
		fs, err := queue.NewFileStore(cfg.Queue.FilePath, c.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open queue file: %w", err)
		}
		return fs, nil
	}
}

// RunWorkers starts the background loops; they stop when ctx is done.
func (c *Components) RunWorkers(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Syncer.Run(ctx)
	}()

	if c.Probe != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Probe.Run(ctx)
		}()
	}
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
