package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExtractedEvent is the structured record a language model derives from a
// single Source. It is 1:1 with its Source.
type ExtractedEvent struct {
	ID                  uuid.UUID
	SourceID            uuid.UUID
	Summary             string
	ExtractedVictimName *string
	ExtractedLocation   *string
	ExtractedDate       *time.Time
	ConfidenceScore     float64
	IncidentID          *uuid.UUID
}

// DefaultConfidence is used whenever the language model output is missing
// or untrusted.
const DefaultConfidence = 0.5

// Incident is a canonical real-world event. Many ExtractedEvents may link
// to one Incident.
type Incident struct {
	ID           uuid.UUID
	Title        string
	Date         time.Time
	Location     *string
	City         string
	Neighborhood *string
	Description  *string
	Confirmed    bool
}

// DefaultCity is used when no other city context is available; the resolver
// assumes a single implicit city.
const DefaultCity = "Rio de Janeiro"
