// Package workers runs the background loops of the agent: draining the
// pending queue and probing connectivity.
package workers

import (
	"context"

	"hazardsync/internal/domain"
)

//go:generate mockgen -source=workers.go -destination=mocks/mock.go
type ReportSender interface {
	Send(ctx context.Context, r domain.PendingReport) (domain.IngestReceipt, error)
}

type Notifier interface {
	Publish(kind domain.NoticeKind, message string)
}

type Connectivity interface {
	IsOnline() bool
	OnOnline(fn func()) func()
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type StatusSetter interface {
	Set(online bool) bool
}
