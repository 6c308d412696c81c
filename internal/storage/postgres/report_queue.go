package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"hazardsync/internal/domain"
	"hazardsync/internal/queue"
	"hazardsync/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportQueue orders reports by a bigserial sequence; each statement commits
// before returning, which gives the durability the queue contract needs.
type ReportQueue struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ queue.Store = (*ReportQueue)(nil)

func NewReportQueue(pool *pgxpool.Pool, logger *slog.Logger) *ReportQueue {
	return &ReportQueue{pool: pool, logger: logger}
}

func (q *ReportQueue) Enqueue(ctx context.Context, r domain.PendingReport) error {
	const op = "postgres.ReportQueue.Enqueue"

	const query = `
		INSERT INTO pending_reports (id, payload, attempts, captured_at)
		VALUES ($1, $2, $3, $4)
	`

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", op, err, e.ErrPersistence)
	}

	if _, err := q.pool.Exec(ctx, query, r.ID, payload, r.Attempts, r.CapturedAt); err != nil {
		q.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", r.ID))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (q *ReportQueue) PeekAll(ctx context.Context) ([]domain.PendingReport, error) {
	const op = "postgres.ReportQueue.PeekAll"

	const query = `SELECT payload, attempts FROM pending_reports ORDER BY seq ASC`

	rows, err := q.pool.Query(ctx, query)
	if err != nil {
		q.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	reports := make([]domain.PendingReport, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			q.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return reports, nil
}

func (q *ReportQueue) Get(ctx context.Context, id string) (domain.PendingReport, error) {
	const op = "postgres.ReportQueue.Get"

	const query = `SELECT payload, attempts FROM pending_reports WHERE id = $1`

	r, err := scanReport(q.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PendingReport{}, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		return domain.PendingReport{}, e.WrapError(ctx, op, err)
	}
	return r, nil
}

func (q *ReportQueue) Remove(ctx context.Context, id string) error {
	const op = "postgres.ReportQueue.Remove"

	if _, err := q.pool.Exec(ctx, `DELETE FROM pending_reports WHERE id = $1`, id); err != nil {
		q.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (q *ReportQueue) MarkAttempt(ctx context.Context, id string) (int, error) {
	const op = "postgres.ReportQueue.MarkAttempt"

	const query = `
		UPDATE pending_reports
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`

	var attempts int
	if err := q.pool.QueryRow(ctx, query, id).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		q.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id))
		return 0, e.WrapError(ctx, op, err)
	}
	return attempts, nil
}

func (q *ReportQueue) Count(ctx context.Context) (int, error) {
	var n int
	if err := q.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pending_reports`).Scan(&n); err != nil {
		return 0, e.WrapError(ctx, "postgres.ReportQueue.Count", err)
	}
	return n, nil
}

func (q *ReportQueue) Clear(ctx context.Context) error {
	if _, err := q.pool.Exec(ctx, `DELETE FROM pending_reports`); err != nil {
		return e.WrapError(ctx, "postgres.ReportQueue.Clear", err)
	}
	return nil
}

// attempts lives in its own column so increments never rewrite the payload.
func scanReport(row pgx.Row) (domain.PendingReport, error) {
	var (
		payload  []byte
		attempts int
		r        domain.PendingReport
	)
	if err := row.Scan(&payload, &attempts); err != nil {
		return r, err
	}
	if err := json.Unmarshal(payload, &r); err != nil {
		return r, err
	}
	r.Attempts = attempts
	return r, nil
}
