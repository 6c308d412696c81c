package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"hazardsync/internal/components"
	"hazardsync/internal/config"
)

// Run starts the field agent and blocks until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		components.SetupLogger("local").Error("load config failed", slog.Any("error", err))
		return err
	}
	logger := components.SetupLogger(cfg.Env)
	logger.Info("starting hazardsync",
		slog.String("env", cfg.Env),
		slog.String("queue_backend", cfg.Queue.Backend),
		slog.Bool("ingest_configured", cfg.Ingest.URL != ""),
		slog.Bool("probe_enabled", cfg.Ingest.HealthURL != ""))

	// components own backends that outlive the serving context
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comps, err := components.InitComponents(appCtx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", slog.Any("error", err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := comps.HttpServer.Run(ctx); err != nil {
			logger.Error("http server failed", slog.Any("error", err))
		}
		logger.Info("http server stopped")
	}()

	comps.RunWorkers(ctx, &wg)

	<-ctx.Done()
	logger.Info("shutdown requested, waiting for workers and in-flight deliveries")

	wg.Wait()

	comps.ShutdownAll()
	cancel()
	logger.Info("gracefully shut down")

	return nil
}
