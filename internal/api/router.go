package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hazardsync/internal/api/handlers/http/queue"
	"hazardsync/internal/api/handlers/http/system"
	"hazardsync/internal/api/handlers/http/wizard"
	"hazardsync/internal/config"
	"hazardsync/internal/middleware"
	"hazardsync/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

// Deps are the collaborators the HTTP layer drives.
type Deps struct {
	Service *service.Service
	Wizard  wizard.Wizard
	Conn    system.Connectivity
	Notices system.Notices
	Pending system.PendingCounter
	Drain   system.DrainState
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, d Deps) *Server {
	wizardHandler := wizard.NewHandler(logger, d.Wizard, cfg.Photo.MaxBytes)
	queueHandler := queue.NewHandler(logger, d.Service, d.Service)
	systemHandler := system.NewHandler(logger, d.Conn, d.Notices, d.Pending, d.Drain)

	r := InitRouter(ctx, wizardHandler, queueHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(ctx context.Context, wizardHandler *wizard.Handler, queueHandler *queue.Handler, systemHandler *system.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(g chi.Router) {
			g.Use(middleware.Limit(ctx, 20, 40, 10*time.Minute, logger))

			g.Route("/capture", func(cr chi.Router) {
				cr.Get("/", wizardHandler.CaptureGet)
				cr.Post("/details", wizardHandler.CaptureDetails)
				cr.Post("/location", wizardHandler.CaptureArmLocation)
				cr.Post("/location/confirm", wizardHandler.CaptureConfirmLocation)
				cr.Post("/photo", wizardHandler.CapturePhoto)
				cr.Post("/contact", wizardHandler.CaptureContact)
				cr.Post("/next", wizardHandler.CaptureNext)
				cr.Post("/back", wizardHandler.CaptureBack)
				cr.Post("/submit", wizardHandler.CaptureSubmit)
				cr.Post("/reset", wizardHandler.CaptureReset)
			})

			g.Route("/queue", func(qr chi.Router) {
				qr.Get("/", queueHandler.QueueList)
				qr.Delete("/", queueHandler.QueueClear)
				qr.Delete("/{id}", queueHandler.QueueRemove)
			})

			g.Get("/connectivity", systemHandler.ConnectivityGet)
			g.Put("/connectivity", systemHandler.ConnectivitySet)
			g.Get("/notifications", systemHandler.NoticesList)
		})

		// manual sync is expensive; keep it on its own tighter budget
		api.With(middleware.Limit(ctx, 1, 3, 10*time.Minute, logger)).Post("/sync", queueHandler.SyncNow)

		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("🚀 Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("🛑 Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
