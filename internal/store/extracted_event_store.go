package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/domain"
)

// ExtractedEventStore persists domain.ExtractedEvent records, 1:1 with
// their owning Source.
type ExtractedEventStore struct {
	db Querier
}

// NewExtractedEventStore builds an ExtractedEventStore bound to db.
func NewExtractedEventStore(db Querier) *ExtractedEventStore {
	return &ExtractedEventStore{db: db}
}

// GetBySourceID returns the at-most-one ExtractedEvent owned by a Source.
func (s *ExtractedEventStore) GetBySourceID(ctx context.Context, sourceID uuid.UUID) (*domain.ExtractedEvent, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, source_id, summary, extracted_victim_name, extracted_location, extracted_date, confidence_score, incident_id
		FROM extracted_events WHERE source_id = $1`, sourceID)
	return scanExtractedEvent(row)
}

// GetByID loads a single ExtractedEvent by its own ID, used by the Enrich
// stage and the manual re-enrich path.
func (s *ExtractedEventStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractedEvent, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, source_id, summary, extracted_victim_name, extracted_location, extracted_date, confidence_score, incident_id
		FROM extracted_events WHERE id = $1`, id)
	return scanExtractedEvent(row)
}

// Upsert inserts a new ExtractedEvent, or — when force is true and one
// already exists for the Source — updates the existing row in place,
// keeping the same row id.
func (s *ExtractedEventStore) Upsert(ctx context.Context, ev *domain.ExtractedEvent, force bool) error {
	existing, err := s.GetBySourceID(ctx, ev.SourceID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if existing == nil {
		if ev.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("store: new uuid: %w", err)
			}
			ev.ID = id
		}
		_, err := s.db.Exec(ctx, `
			INSERT INTO extracted_events (id, source_id, summary, extracted_victim_name, extracted_location, extracted_date, confidence_score, incident_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ev.ID, ev.SourceID, ev.Summary, ev.ExtractedVictimName, ev.ExtractedLocation, ev.ExtractedDate, ev.ConfidenceScore, ev.IncidentID)
		if err != nil {
			return fmt.Errorf("store: insert extracted event: %w", err)
		}
		return nil
	}

	if !force {
		// Spec §3: at most one Extracted Event per Source. Without force we
		// never touch an existing one outside the force re-extract path.
		ev.ID = existing.ID
		return nil
	}

	ev.ID = existing.ID
	ev.IncidentID = existing.IncidentID // re-extraction never clears an existing link
	_, err = s.db.Exec(ctx, `
		UPDATE extracted_events
		SET summary = $2, extracted_victim_name = $3, extracted_location = $4, extracted_date = $5, confidence_score = $6
		WHERE id = $1`,
		ev.ID, ev.Summary, ev.ExtractedVictimName, ev.ExtractedLocation, ev.ExtractedDate, ev.ConfidenceScore)
	if err != nil {
		return fmt.Errorf("store: update extracted event: %w", err)
	}
	return nil
}

// LinkIncident sets the incident_id on an ExtractedEvent (C12).
func (s *ExtractedEventStore) LinkIncident(ctx context.Context, eventID, incidentID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `UPDATE extracted_events SET incident_id = $2 WHERE id = $1`, eventID, incidentID)
	if err != nil {
		return fmt.Errorf("store: link incident: %w", err)
	}
	return nil
}

// ListUnlinked returns ExtractedEvents with no linked Incident and a
// non-null extracted_date, the candidate set for the Enrich stage (C12).
func (s *ExtractedEventStore) ListUnlinked(ctx context.Context, limit int) ([]*domain.ExtractedEvent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, source_id, summary, extracted_victim_name, extracted_location, extracted_date, confidence_score, incident_id
		FROM extracted_events
		WHERE incident_id IS NULL AND extracted_date IS NOT NULL
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list unlinked: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExtractedEvent
	for rows.Next() {
		ev, err := scanExtractedEventRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ListByIncident returns every ExtractedEvent linked to incidentID, the
// working set the manual re-enrich path re-scores an Incident against.
func (s *ExtractedEventStore) ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*domain.ExtractedEvent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, source_id, summary, extracted_victim_name, extracted_location, extracted_date, confidence_score, incident_id
		FROM extracted_events
		WHERE incident_id = $1`, incidentID)
	if err != nil {
		return nil, fmt.Errorf("store: list by incident: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExtractedEvent
	for rows.Next() {
		ev, err := scanExtractedEventRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanExtractedEvent(row pgx.Row) (*domain.ExtractedEvent, error) {
	var ev domain.ExtractedEvent
	err := row.Scan(&ev.ID, &ev.SourceID, &ev.Summary, &ev.ExtractedVictimName, &ev.ExtractedLocation, &ev.ExtractedDate, &ev.ConfidenceScore, &ev.IncidentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan extracted event: %w", err)
	}
	return &ev, nil
}

func scanExtractedEventRows(rows pgx.Rows) (*domain.ExtractedEvent, error) {
	var ev domain.ExtractedEvent
	err := rows.Scan(&ev.ID, &ev.SourceID, &ev.Summary, &ev.ExtractedVictimName, &ev.ExtractedLocation, &ev.ExtractedDate, &ev.ConfidenceScore, &ev.IncidentID)
	if err != nil {
		return nil, fmt.Errorf("store: scan extracted event row: %w", err)
	}
	return &ev, nil
}
