// Package queue holds the durable, ordered collection of reports awaiting delivery.
//
// Every backend keeps FIFO order, survives restarts and persists each
// mutation before returning. Remove is idempotent.
package queue

import (
	"context"

	"hazardsync/internal/domain"
)

// Namespace is the fixed key the pending collection is stored under.
const Namespace = "hazard_reports:pending"

//go:generate mockgen -source=store.go -destination=mocks/mock.go
type Store interface {
	// Enqueue appends r to the tail. An existing id yields e.ErrConflict.
	Enqueue(ctx context.Context, r domain.PendingReport) error
	// PeekAll returns a snapshot in insertion order.
	PeekAll(ctx context.Context) ([]domain.PendingReport, error)
	Get(ctx context.Context, id string) (domain.PendingReport, error)
	// Remove deletes id. Removing an absent id is not an error.
	Remove(ctx context.Context, id string) error
	// MarkAttempt increments the attempt counter of id and returns the new value.
	MarkAttempt(ctx context.Context, id string) (int, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
