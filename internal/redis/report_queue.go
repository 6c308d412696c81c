package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"hazardsync/internal/domain"
	"hazardsync/internal/queue"
	"hazardsync/pkg/e"

	"github.com/redis/go-redis/v9"
)

const maxTxRetries = 5

// ReportQueue keeps order in a list of ids and the reports in a hash keyed by id.
// Both keys change together inside MULTI/EXEC. Durability across restarts
// relies on the server running with AOF (appendfsync always or everysec).
type ReportQueue struct {
	client   *redis.Client
	orderKey string
	itemsKey string
	logger   *slog.Logger
}

var _ queue.Store = (*ReportQueue)(nil)

func NewReportQueue(client *redis.Client, namespace string, logger *slog.Logger) *ReportQueue {
	return &ReportQueue{
		client:   client,
		orderKey: namespace + ":order",
		itemsKey: namespace + ":items",
		logger:   logger,
	}
}

func (q *ReportQueue) Enqueue(ctx context.Context, r domain.PendingReport) error {
	const op = "redis.ReportQueue.Enqueue"

	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", op, err, e.ErrPersistence)
	}

	err = q.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, q.itemsKey, r.ID).Result()
		if err != nil {
			return err
		}
		if exists {
			return e.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, q.itemsKey, r.ID, b)
			p.RPush(ctx, q.orderKey, r.ID)
			return nil
		})
		return err
	})
	if err != nil {
		return q.wrap(ctx, op, err)
	}
	return nil
}

func (q *ReportQueue) PeekAll(ctx context.Context) ([]domain.PendingReport, error) {
	const op = "redis.ReportQueue.PeekAll"

	ids, err := q.client.LRange(ctx, q.orderKey, 0, -1).Result()
	if err != nil {
		return nil, q.wrap(ctx, op, err)
	}
	if len(ids) == 0 {
		return []domain.PendingReport{}, nil
	}

	vals, err := q.client.HMGet(ctx, q.itemsKey, ids...).Result()
	if err != nil {
		return nil, q.wrap(ctx, op, err)
	}

	out := make([]domain.PendingReport, 0, len(ids))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			q.logger.Warn("order entry without payload", slog.String("id", ids[i]))
			continue
		}
		var r domain.PendingReport
		if err := json.Unmarshal([]byte(s), &r); err != nil {
			return nil, fmt.Errorf("%s: decode %s: %v: %w", op, ids[i], err, e.ErrPersistence)
		}
		out = append(out, r)
	}
	return out, nil
}

func (q *ReportQueue) Get(ctx context.Context, id string) (domain.PendingReport, error) {
	const op = "redis.ReportQueue.Get"

	var r domain.PendingReport
	b, err := q.client.HGet(ctx, q.itemsKey, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return r, fmt.Errorf("%s: %s: %w", op, id, e.ErrNotFound)
		}
		return r, q.wrap(ctx, op, err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("%s: %v: %w", op, err, e.ErrPersistence)
	}
	return r, nil
}

func (q *ReportQueue) Remove(ctx context.Context, id string) error {
	const op = "redis.ReportQueue.Remove"

	_, err := q.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LRem(ctx, q.orderKey, 0, id)
		p.HDel(ctx, q.itemsKey, id)
		return nil
	})
	if err != nil {
		return q.wrap(ctx, op, err)
	}
	return nil
}

func (q *ReportQueue) MarkAttempt(ctx context.Context, id string) (int, error) {
	const op = "redis.ReportQueue.MarkAttempt"

	var attempts int
	err := q.watch(ctx, func(tx *redis.Tx) error {
		b, err := tx.HGet(ctx, q.itemsKey, id).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return e.ErrNotFound
			}
			return err
		}
		var r domain.PendingReport
		if err := json.Unmarshal(b, &r); err != nil {
			return fmt.Errorf("decode: %v: %w", err, e.ErrPersistence)
		}
		r.Attempts++
		next, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, q.itemsKey, id, next)
			return nil
		})
		attempts = r.Attempts
		return err
	})
	if err != nil {
		return 0, q.wrap(ctx, op, err)
	}
	return attempts, nil
}

func (q *ReportQueue) Count(ctx context.Context) (int, error) {
	n, err := q.client.LLen(ctx, q.orderKey).Result()
	if err != nil {
		return 0, q.wrap(ctx, "redis.ReportQueue.Count", err)
	}
	return int(n), nil
}

func (q *ReportQueue) Clear(ctx context.Context) error {
	if err := q.client.Del(ctx, q.orderKey, q.itemsKey).Err(); err != nil {
		return q.wrap(ctx, "redis.ReportQueue.Clear", err)
	}
	return nil
}

// watch runs fn under WATCH on the items hash, retrying on optimistic lock failure.
func (q *ReportQueue) watch(ctx context.Context, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := q.client.Watch(ctx, fn, q.itemsKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return redis.TxFailedErr
}

func (q *ReportQueue) wrap(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, e.ErrConflict), errors.Is(err, e.ErrNotFound), errors.Is(err, e.ErrPersistence):
		return fmt.Errorf("%s: %w", op, err)
	}
	q.logger.Error("redis command failed", slog.String("op", op), slog.Any("error", err))
	return e.WrapError(ctx, op, err)
}
