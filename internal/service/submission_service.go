package service

import (
	"context"

	"hazardsync/internal/domain"
)

func (s *Service) Submit(ctx context.Context, p domain.ReportPayload) (domain.SubmitResult, error) {
	return s.SubmissionService.Submit(ctx, p)
}

func (s *Service) List(ctx context.Context) ([]domain.QueuedReport, error) {
	return s.QueueService.List(ctx)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.QueueService.Remove(ctx, id)
}

func (s *Service) Clear(ctx context.Context) (int, error) {
	return s.QueueService.Clear(ctx)
}

func (s *Service) SyncNow(ctx context.Context) (domain.DrainSummary, error) {
	return s.SyncService.SyncNow(ctx)
}
