package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"hazardsync/internal/domain"
	"hazardsync/pkg/e"
)

// document is the on-disk layout: one ordered collection under the namespace key.
type document struct {
	Version int                               `json:"version"`
	Items   map[string][]domain.PendingReport `json:"items"`
}

const documentVersion = 1

// FileStore keeps the queue in a single JSON document. Every mutation
// rewrites the document through a temp file, fsync and rename, so a crash
// leaves either the old or the new state on disk.
type FileStore struct {
	mu      sync.Mutex
	path    string
	logger  *slog.Logger
	reports []domain.PendingReport
	index   map[string]int
}

func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	const op = "queue.NewFileStore"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrPersistence)
	}

	s := &FileStore{path: path, logger: logger}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("file queue opened",
		slog.String("path", path),
		slog.Int("pending", len(s.reports)),
	)
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.reports = nil
			s.reindex()
			return nil
		}
		return fmt.Errorf("read %s: %v: %w", s.path, err, e.ErrPersistence)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		// a corrupt queue file must not be silently replaced by an empty one
		return fmt.Errorf("decode %s: %v: %w", s.path, err, e.ErrPersistence)
	}
	if doc.Version != documentVersion {
		return fmt.Errorf("unsupported queue file version %d: %w", doc.Version, e.ErrPersistence)
	}

	s.reports = doc.Items[Namespace]
	s.reindex()
	return nil
}

func (s *FileStore) reindex() {
	s.index = make(map[string]int, len(s.reports))
	for i, r := range s.reports {
		s.index[r.ID] = i
	}
}

// persist writes next to disk and only then swaps it in. Caller holds mu.
func (s *FileStore) persist(next []domain.PendingReport) error {
	b, err := json.Marshal(document{
		Version: documentVersion,
		Items:   map[string][]domain.PendingReport{Namespace: next},
	})
	if err != nil {
		return fmt.Errorf("encode queue: %v: %w", err, e.ErrPersistence)
	}

	if err := writeFileAtomic(s.path, b); err != nil {
		s.logger.Error("queue write failed", slog.String("path", s.path), slog.Any("error", err))
		return fmt.Errorf("write queue: %v: %w", err, e.ErrPersistence)
	}

	s.reports = next
	s.reindex()
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// not every platform supports syncing a directory handle
	_ = d.Sync()
	return nil
}

func (s *FileStore) Enqueue(ctx context.Context, r domain.PendingReport) error {
	const op = "queue.FileStore.Enqueue"
	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[r.ID]; ok {
		return fmt.Errorf("%s: report %s: %w", op, r.ID, e.ErrConflict)
	}

	next := make([]domain.PendingReport, len(s.reports), len(s.reports)+1)
	copy(next, s.reports)
	next = append(next, r)

	if err := s.persist(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *FileStore) PeekAll(ctx context.Context) ([]domain.PendingReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PendingReport, len(s.reports))
	copy(out, s.reports)
	return out, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (domain.PendingReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return domain.PendingReport{}, fmt.Errorf("queue.FileStore.Get: %s: %w", id, e.ErrNotFound)
	}
	return s.reports[i], nil
}

func (s *FileStore) Remove(ctx context.Context, id string) error {
	const op = "queue.FileStore.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil
	}

	next := make([]domain.PendingReport, 0, len(s.reports)-1)
	next = append(next, s.reports[:i]...)
	next = append(next, s.reports[i+1:]...)

	if err := s.persist(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *FileStore) MarkAttempt(ctx context.Context, id string) (int, error) {
	const op = "queue.FileStore.MarkAttempt"

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return 0, fmt.Errorf("%s: %s: %w", op, id, e.ErrNotFound)
	}

	next := make([]domain.PendingReport, len(s.reports))
	copy(next, s.reports)
	next[i].Attempts++

	if err := s.persist(next); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return next[i].Attempts, nil
}

func (s *FileStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports), nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(nil); err != nil {
		return fmt.Errorf("queue.FileStore.Clear: %w", err)
	}
	return nil
}
