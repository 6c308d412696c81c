package service

import (
	"context"

	"hazardsync/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// Use cases

type SubmissionService interface {
	Submit(ctx context.Context, p domain.ReportPayload) (domain.SubmitResult, error)
}

type QueueService interface {
	List(ctx context.Context) ([]domain.QueuedReport, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
}

type SyncService interface {
	SyncNow(ctx context.Context) (domain.DrainSummary, error)
}

// Dependencies

type ReportSender interface {
	Send(ctx context.Context, r domain.PendingReport) (domain.IngestReceipt, error)
}

type ConnectivityChecker interface {
	IsOnline() bool
}

type ReportQueue interface {
	Enqueue(ctx context.Context, r domain.PendingReport) error
	PeekAll(ctx context.Context) ([]domain.PendingReport, error)
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

type Notifier interface {
	Publish(kind domain.NoticeKind, message string)
}

type Drainer interface {
	Drain(ctx context.Context) (domain.DrainSummary, error)
}

type Service struct {
	SubmissionService SubmissionService
	QueueService      QueueService
	SyncService       SyncService
}

func NewService(
	submissionService SubmissionService,
	queueService QueueService,
	syncService SyncService,
) *Service {
	return &Service{
		SubmissionService: submissionService,
		QueueService:      queueService,
		SyncService:       syncService,
	}
}
