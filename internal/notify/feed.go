// Package notify keeps the recent user-facing notices in memory.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"hazardsync/internal/domain"
)

const DefaultCapacity = 50

type Publisher interface {
	Publish(kind domain.NoticeKind, message string)
}

// Feed is a bounded ring of notices, newest kept.
type Feed struct {
	mu     sync.Mutex
	items  []domain.Notice
	next   int
	full   bool
	now    func() time.Time
	logger *slog.Logger
}

func NewFeed(capacity int, logger *slog.Logger) *Feed {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Feed{
		items:  make([]domain.Notice, capacity),
		now:    time.Now,
		logger: logger,
	}
}

func (f *Feed) Publish(kind domain.NoticeKind, message string) {
	n := domain.Notice{Kind: kind, Message: message, At: f.now().UTC()}

	f.mu.Lock()
	f.items[f.next] = n
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
	f.mu.Unlock()

	f.logger.Info("notice", slog.String("kind", string(kind)), slog.String("message", message))
}

// Recent returns up to limit notices, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []domain.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	size := f.next
	if f.full {
		size = len(f.items)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]domain.Notice, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}
