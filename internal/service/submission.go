package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hazardsync/internal/domain"
	"hazardsync/pkg/e"
)

const (
	NoticeSavedOffline = "Saved locally, will sync later."
	NoticeDelivered    = "Report delivered."
)

type submissionService struct {
	sender   ReportSender
	conn     ConnectivityChecker
	queue    ReportQueue
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewSubmissionService(
	sender ReportSender,
	conn ConnectivityChecker,
	queue ReportQueue,
	notifier Notifier,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		sender:   sender,
		conn:     conn,
		queue:    queue,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit tries a direct send when online and falls back to the durable queue
// on any failure. The only error returned is a failure to persist locally.
func (s *submissionService) Submit(ctx context.Context, p domain.ReportPayload) (domain.SubmitResult, error) {
	const op = "service.submissionService.Submit"

	r, err := domain.NewPendingReport(p, s.now())
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("%s: new report id: %v: %w", op, err, e.ErrInternal)
	}

	l := s.logger.With(slog.String("report_id", r.ID))
	l.Info("submission START",
		slog.String("hazard_type", string(r.HazardType)),
		slog.String("severity", string(r.Severity)),
		slog.Bool("anonymous", r.Anonymous()))

	if s.conn.IsOnline() {
		rec, err := s.sender.Send(ctx, r)
		if err == nil {
			l.Info("submission delivered directly", slog.String("server_id", rec.ServerID))
			s.notifier.Publish(domain.NoticeDelivered, NoticeDelivered)
			return domain.SubmitResult{
				Status:   domain.SubmitDelivered,
				LocalID:  r.ID,
				ServerID: rec.ServerID,
				Notice:   NoticeDelivered,
			}, nil
		}
		l.Warn("direct send failed, queueing", slog.Any("error", err))
		r.Attempts = 1
	} else {
		l.Info("offline, queueing")
	}

	// the report must reach storage even if the caller has gone away
	if err := s.queue.Enqueue(context.WithoutCancel(ctx), r); err != nil {
		if !errors.Is(err, e.ErrPersistence) {
			err = fmt.Errorf("%v: %w", err, e.ErrPersistence)
		}
		l.Error("enqueue failed", slog.Any("error", err))
		s.notifier.Publish(domain.NoticePersistenceFailed, "Could not save the report on this device. Please try again.")
		return domain.SubmitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	l.Info("submission queued", slog.Int("attempts", r.Attempts))
	s.notifier.Publish(domain.NoticeSavedOffline, NoticeSavedOffline)
	return domain.SubmitResult{
		Status:  domain.SubmitQueued,
		LocalID: r.ID,
		Notice:  NoticeSavedOffline,
	}, nil
}
