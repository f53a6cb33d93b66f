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

// IncidentStore persists domain.Incident records and supports the ±1-day
// blocking query used by the Dedup Resolver (C11).
type IncidentStore struct {
	db Querier
}

// NewIncidentStore builds an IncidentStore bound to db.
func NewIncidentStore(db Querier) *IncidentStore {
	return &IncidentStore{db: db}
}

// GetByID loads a single Incident by ID.
func (s *IncidentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, date, location, city, neighborhood, description, confirmed
		FROM incidents WHERE id = $1`, id)
	return scanIncident(row)
}

// CandidatesWithinWindow returns every Incident whose date lies within
// [date-1day, date+1day] inclusive, ordered by insertion (id generation
// order via uuid v7, which is time-ordered) so that score ties break by
// insertion order, as required for deterministic tie-breaking in scoring.
func (s *IncidentStore) CandidatesWithinWindow(ctx context.Context, date time.Time) ([]*domain.Incident, error) {
	lo := date.AddDate(0, 0, -1)
	hi := date.AddDate(0, 0, 1)
	rows, err := s.db.Query(ctx, `
		SELECT id, title, date, location, city, neighborhood, description, confirmed
		FROM incidents
		WHERE date BETWEEN $1 AND $2
		ORDER BY id`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("store: candidates within window: %w", err)
	}
	defer rows.Close()

	var out []*domain.Incident
	for rows.Next() {
		inc, err := scanIncidentRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// Create mints a new canonical Incident (C12 step 3), confirmed=false.
func (s *IncidentStore) Create(ctx context.Context, inc *domain.Incident) error {
	if inc.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("store: new uuid: %w", err)
		}
		inc.ID = id
	}
	if inc.City == "" {
		inc.City = domain.DefaultCity
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO incidents (id, title, date, location, city, neighborhood, description, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inc.ID, inc.Title, inc.Date, inc.Location, inc.City, inc.Neighborhood, inc.Description, inc.Confirmed)
	if err != nil {
		return fmt.Errorf("store: insert incident: %w", err)
	}
	return nil
}

// Update rewrites an existing Incident's derived fields in place, used by
// the manual re-enrich path after it recomputes title/location/neighborhood
// against the incident's current set of linked extractions.
func (s *IncidentStore) Update(ctx context.Context, inc *domain.Incident) error {
	_, err := s.db.Exec(ctx, `
		UPDATE incidents
		SET title = $2, location = $3, neighborhood = $4, description = $5
		WHERE id = $1`,
		inc.ID, inc.Title, inc.Location, inc.Neighborhood, inc.Description)
	if err != nil {
		return fmt.Errorf("store: update incident: %w", err)
	}
	return nil
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var inc domain.Incident
	err := row.Scan(&inc.ID, &inc.Title, &inc.Date, &inc.Location, &inc.City, &inc.Neighborhood, &inc.Description, &inc.Confirmed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan incident: %w", err)
	}
	return &inc, nil
}

func scanIncidentRows(rows pgx.Rows) (*domain.Incident, error) {
	var inc domain.Incident
	err := rows.Scan(&inc.ID, &inc.Title, &inc.Date, &inc.Location, &inc.City, &inc.Neighborhood, &inc.Description, &inc.Confirmed)
	if err != nil {
		return nil, fmt.Errorf("store: scan incident row: %w", err)
	}
	return &inc, nil
}
