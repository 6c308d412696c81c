package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"hazardsync/internal/domain"
	"hazardsync/internal/ingest"
	"hazardsync/internal/queue"
	"hazardsync/pkg/e"
)

type SyncOptions struct {
	// Interval between automatic drains while online; zero disables them.
	Interval       time.Duration
	RatePerSecond  float64
	AttentionAfter int
	AttemptTimeout time.Duration
}

// Syncer drains the pending queue against the ingestion endpoint, one report
// at a time in queue order. At most one drain runs at any moment.
type Syncer struct {
	store    queue.Store
	sender   ReportSender
	notifier Notifier
	conn     Connectivity
	opts     SyncOptions
	limiter  *rate.Limiter
	logger   *slog.Logger

	draining atomic.Bool
	trigger  chan struct{}
	now      func() time.Time
}

func NewSyncer(store queue.Store, sender ReportSender, notifier Notifier, conn Connectivity, opts SyncOptions, logger *slog.Logger) *Syncer {
	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 30 * time.Second
	}
	return &Syncer{
		store:    store,
		sender:   sender,
		notifier: notifier,
		conn:     conn,
		opts:     opts,
		limiter:  limiter,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Draining reports whether a drain is in progress.
func (s *Syncer) Draining() bool {
	return s.draining.Load()
}

// Trigger asks Run to start a drain. It never blocks; triggers that arrive
// while one is already pending are coalesced.
func (s *Syncer) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Drain makes one pass over the reports queued when it starts. Reports
// enqueued during the pass wait for the next one. Returns e.ErrDrainInProgress
// if another drain is active.
func (s *Syncer) Drain(ctx context.Context) (domain.DrainSummary, error) {
	const op = "workers.Syncer.Drain"

	if !s.draining.CompareAndSwap(false, true) {
		return domain.DrainSummary{}, fmt.Errorf("%s: %w", op, e.ErrDrainInProgress)
	}
	defer s.draining.Store(false)

	summary := domain.DrainSummary{StartedAt: s.now().UTC()}

	snapshot, err := s.store.PeekAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("%s: snapshot: %w", op, err)
	}
	if len(snapshot) == 0 {
		summary.FinishedAt = s.now().UTC()
		return summary, nil
	}

	s.logger.Info("drain START", slog.Int("pending", len(snapshot)))

	var interrupted error
	for _, r := range snapshot {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				interrupted = err
				break
			}
		}
		s.deliver(ctx, r, &summary)
	}
	summary.FinishedAt = s.now().UTC()

	s.logger.Info("drain END",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Int("needs_attention", len(summary.NeedsAttention)),
		slog.Duration("took", summary.FinishedAt.Sub(summary.StartedAt)))

	s.announce(summary)

	if interrupted != nil {
		return summary, e.WrapError(ctx, op, interrupted)
	}
	return summary, nil
}

// deliver sends one report. The attempt is not cut short by ctx; it is
// bounded by AttemptTimeout instead. A report removed from the queue since
// the snapshot was taken is skipped and counted neither way.
func (s *Syncer) deliver(ctx context.Context, r domain.PendingReport, summary *domain.DrainSummary) {
	l := s.logger.With(slog.String("report_id", r.ID))

	base := context.WithoutCancel(ctx)

	current, err := s.store.Get(base, r.ID)
	switch {
	case errors.Is(err, e.ErrNotFound):
		l.Info("report removed before delivery, skipped")
		return
	case err != nil:
		l.Warn("could not recheck report, sending snapshot copy", slog.Any("error", err))
	default:
		r = current
	}

	attemptCtx, cancel := context.WithTimeout(base, s.opts.AttemptTimeout)
	rec, err := s.sender.Send(attemptCtx, r)
	cancel()

	if err == nil {
		if rmErr := s.store.Remove(base, r.ID); rmErr != nil {
			// stays queued and is resent next drain under the same idempotency key
			l.Error("delivered but could not dequeue", slog.Any("error", rmErr))
		}
		summary.Succeeded++
		l.Info("report synced", slog.String("server_id", rec.ServerID))
		return
	}

	summary.Failed++
	attempts, markErr := s.store.MarkAttempt(base, r.ID)
	switch {
	case errors.Is(markErr, e.ErrNotFound):
		l.Info("report left the queue during delivery")
		return
	case markErr != nil:
		l.Error("could not record attempt", slog.Any("error", markErr))
		attempts = r.Attempts + 1
	}

	l.Warn("report sync failed",
		slog.Int("attempts", attempts),
		slog.Bool("retryable", ingest.IsRetryable(err)),
		slog.Any("error", err))

	if s.opts.AttentionAfter > 0 && attempts >= s.opts.AttentionAfter {
		summary.NeedsAttention = append(summary.NeedsAttention, r.ID)
	}
}

func (s *Syncer) announce(summary domain.DrainSummary) {
	if summary.Succeeded > 0 {
		s.notifier.Publish(domain.NoticeSynced,
			fmt.Sprintf("%d %s synced successfully.", summary.Succeeded, reports(summary.Succeeded)))
	}
	if summary.Failed > 0 {
		s.notifier.Publish(domain.NoticeSyncFailed,
			fmt.Sprintf("Sync failed for %d %s, will retry.", summary.Failed, reports(summary.Failed)))
	}
}

func reports(n int) string {
	if n == 1 {
		return "report"
	}
	return "reports"
}

// Run drains on every trigger, on each transition to online and periodically
// while online, until ctx is done.
func (s *Syncer) Run(ctx context.Context) {
	s.logger.Info("syncer STARTED",
		slog.Duration("interval", s.opts.Interval),
		slog.Float64("rate_per_second", s.opts.RatePerSecond))

	unsubscribe := s.conn.OnOnline(s.Trigger)
	defer unsubscribe()

	var tick <-chan time.Time
	if s.opts.Interval > 0 {
		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// leftovers from a previous session
	if s.conn.IsOnline() {
		s.Trigger()
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("syncer STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		case <-s.trigger:
			s.runDrain(ctx, "trigger")
		case <-tick:
			if s.conn.IsOnline() {
				s.runDrain(ctx, "interval")
			}
		}
	}
}

func (s *Syncer) runDrain(ctx context.Context, reason string) {
	_, err := s.Drain(ctx)
	switch {
	case err == nil:
	case errors.Is(err, e.ErrDrainInProgress):
		s.logger.Debug("drain skipped, another in progress", slog.String("reason", reason))
	case errors.Is(err, e.ErrCanceled), errors.Is(err, e.ErrDeadline):
		s.logger.Info("drain interrupted", slog.String("reason", reason))
	default:
		s.logger.Error("drain failed", slog.String("reason", reason), slog.Any("error", err))
	}
}
