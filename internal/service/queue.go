package service

import (
	"context"
	"fmt"
	"log/slog"

	"hazardsync/internal/domain"
	"hazardsync/pkg/e"
)

type queueService struct {
	queue          ReportQueue
	attentionAfter int
	logger         *slog.Logger
}

func NewQueueService(queue ReportQueue, attentionAfter int, logger *slog.Logger) QueueService {
	return &queueService{queue: queue, attentionAfter: attentionAfter, logger: logger}
}

func (s *queueService) List(ctx context.Context) ([]domain.QueuedReport, error) {
	const op = "service.queueService.List"

	items, err := s.queue.PeekAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]domain.QueuedReport, 0, len(items))
	for _, r := range items {
		out = append(out, domain.NewQueuedReport(r, s.attentionAfter))
	}
	return out, nil
}

func (s *queueService) Remove(ctx context.Context, id string) error {
	const op = "service.queueService.Remove"

	if err := s.queue.Remove(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Info("pending report discarded by user", slog.String("report_id", id))
	return nil
}

// Clear empties the queue and returns how many reports were discarded.
func (s *queueService) Clear(ctx context.Context) (int, error) {
	const op = "service.queueService.Clear"

	n, err := s.queue.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.queue.Clear(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Warn("pending queue cleared by user", slog.Int("discarded", n))
	return n, nil
}

type syncService struct {
	drainer Drainer
	conn    ConnectivityChecker
}

func NewSyncService(drainer Drainer, conn ConnectivityChecker) SyncService {
	return &syncService{drainer: drainer, conn: conn}
}

// SyncNow runs a drain on user request. It is refused while offline.
func (s *syncService) SyncNow(ctx context.Context) (domain.DrainSummary, error) {
	const op = "service.syncService.SyncNow"

	if !s.conn.IsOnline() {
		return domain.DrainSummary{}, fmt.Errorf("%s: %w", op, e.ErrOffline)
	}
	return s.drainer.Drain(ctx)
}
