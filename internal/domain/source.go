// Package domain holds the core entities of the archival pipeline: Source,
// ExtractedEvent, and Incident, plus the Source status state machine.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceStatus is the lifecycle state of a discovered article.
type SourceStatus string

const (
	SourceStatusPending    SourceStatus = "pending"
	SourceStatusDownloaded SourceStatus = "downloaded"
	SourceStatusProcessed  SourceStatus = "processed"
	SourceStatusFailed     SourceStatus = "failed"
)

// transitions maps each status to the set of statuses it may move to under
// normal (non-force) operation. failed is terminal for a run; force mode is
// allowed to reset to an earlier stage and is checked separately by callers.
var transitions = map[SourceStatus]map[SourceStatus]bool{
	SourceStatusPending:    {SourceStatusDownloaded: true, SourceStatusFailed: true, SourceStatusProcessed: true},
	SourceStatusDownloaded: {SourceStatusProcessed: true, SourceStatusFailed: true},
	SourceStatusProcessed:  {},
	SourceStatusFailed:     {},
}

// CanTransition reports whether moving from `from` to `to` is allowed. When
// force is true, any transition is permitted (force overrides the monotone
// ordering, per spec: "force mode may reset to an earlier stage").
func CanTransition(from, to SourceStatus, force bool) bool {
	if from == to {
		return true
	}
	if force {
		return true
	}
	return transitions[from][to]
}

// Source is a discovered article candidate, unique by its original
// aggregator URL.
type Source struct {
	ID          uuid.UUID
	URL         string
	ResolvedURL *string
	Title       string
	SourceType  string
	Status      SourceStatus
	Content     *string
	PublishedAt *time.Time
	FetchedAt   time.Time
}

// Validate checks the structural invariants of a Source: URL is required
// and status is a known value. It does not check PublishedAt; the
// min-year/now bounds are enforced only by dateutil.Parse on the dates it
// parses.
func (s *Source) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("domain: source URL is required")
	}
	switch s.Status {
	case SourceStatusPending, SourceStatusDownloaded, SourceStatusProcessed, SourceStatusFailed:
	default:
		return fmt.Errorf("domain: unknown source status %q", s.Status)
	}
	return nil
}

// ApplyTransition moves the Source to `to`, returning an error if the move
// is not allowed for the given force flag.
func (s *Source) ApplyTransition(to SourceStatus, force bool) error {
	if !CanTransition(s.Status, to, force) {
		return fmt.Errorf("domain: illegal transition %s -> %s (force=%v)", s.Status, to, force)
	}
	s.Status = to
	return nil
}
