package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/domain"
)

// ErrNotFound is returned when a lookup finds no matching row.
var ErrNotFound = errors.New("store: not found")

// SourceStore persists domain.Source records.
type SourceStore struct {
	db Querier
}

// NewSourceStore builds a SourceStore bound to db (a pool or a transaction).
func NewSourceStore(db Querier) *SourceStore {
	return &SourceStore{db: db}
}

// GetByURL looks up a Source by its immutable aggregator URL. Returns
// ErrNotFound when absent, matching C7's "look up by URL" step.
func (s *SourceStore) GetByURL(ctx context.Context, url string) (*domain.Source, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, url, resolved_url, title, source_type, status, content, published_at, fetched_at
		FROM sources WHERE url = $1`, url)
	return scanSource(row)
}

// GetByID loads a Source fresh from the store, as each Download/Extract
// worker does at the start of its job.
func (s *SourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, url, resolved_url, title, source_type, status, content, published_at, fetched_at
		FROM sources WHERE id = $1`, id)
	return scanSource(row)
}

// Insert creates a new Source with status=pending, matching C7's "insert a
// new Source" step.
func (s *SourceStore) Insert(ctx context.Context, src *domain.Source) error {
	if src.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("store: new uuid: %w", err)
		}
		src.ID = id
	}
	if src.FetchedAt.IsZero() {
		src.FetchedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO sources (id, url, resolved_url, title, source_type, status, content, published_at, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		src.ID, src.URL, src.ResolvedURL, src.Title, src.SourceType, src.Status, src.Content, src.PublishedAt, src.FetchedAt)
	if err != nil {
		return fmt.Errorf("store: insert source: %w", err)
	}
	return nil
}

// UpdatePublishedAt sets published_at on an existing Source without
// otherwise touching it, used by C7 when a Source already exists but now
// has a feed-supplied date it lacked before.
func (s *SourceStore) UpdatePublishedAt(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	_, err := s.db.Exec(ctx, `UPDATE sources SET published_at = $2 WHERE id = $1`, id, publishedAt)
	if err != nil {
		return fmt.Errorf("store: update published_at: %w", err)
	}
	return nil
}

// UpdateAfterDownload commits the Download stage's (C8) per-record mutation
// atomically: resolved_url, content, status, and published_at together.
func (s *SourceStore) UpdateAfterDownload(ctx context.Context, src *domain.Source) error {
	_, err := s.db.Exec(ctx, `
		UPDATE sources
		SET resolved_url = $2, content = $3, status = $4, published_at = $5
		WHERE id = $1`,
		src.ID, src.ResolvedURL, src.Content, src.Status, src.PublishedAt)
	if err != nil {
		return fmt.Errorf("store: update source after download: %w", err)
	}
	return nil
}

// UpdateStatus commits a bare status transition (e.g. C10 marking a source
// processed or failed).
func (s *SourceStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SourceStatus) error {
	_, err := s.db.Exec(ctx, `UPDATE sources SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("store: update source status: %w", err)
	}
	return nil
}

// ListPendingDownload returns sources eligible for the Download stage
// worker pool: status=pending, or every source when force is set.
func (s *SourceStore) ListPendingDownload(ctx context.Context, force bool, limit int) ([]uuid.UUID, error) {
	query := `SELECT id FROM sources WHERE status = 'pending' ORDER BY fetched_at LIMIT $1`
	if force {
		query = `SELECT id FROM sources ORDER BY fetched_at LIMIT $1`
	}
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list pending download: %w", err)
	}
	defer rows.Close()
	return scanUUIDs(rows)
}

// ListForExtract returns sources eligible for the Extract stage (C10):
// status != processed, or every source when force is set.
func (s *SourceStore) ListForExtract(ctx context.Context, force bool, limit int) ([]uuid.UUID, error) {
	query := `SELECT id FROM sources WHERE status != 'processed' ORDER BY fetched_at LIMIT $1`
	if force {
		query = `SELECT id FROM sources ORDER BY fetched_at LIMIT $1`
	}
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list for extract: %w", err)
	}
	defer rows.Close()
	return scanUUIDs(rows)
}

func scanUUIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanSource(row pgx.Row) (*domain.Source, error) {
	var s domain.Source
	err := row.Scan(&s.ID, &s.URL, &s.ResolvedURL, &s.Title, &s.SourceType, &s.Status, &s.Content, &s.PublishedAt, &s.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan source: %w", err)
	}
	return &s, nil
}
