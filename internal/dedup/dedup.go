// Package dedup implements the Dedup Resolver (C11): block Incidents by
// date±1 day, score each candidate against an ExtractedEvent by weighted
// fuzzy features, and return the best match above threshold.
package dedup

import (
	"strings"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/domain"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/fuzzy"
)

// MatchThreshold is the minimum total score for a candidate to be returned
// as a match.
const MatchThreshold = 0.60

// Weights for the three scoring components.
const (
	VictimWeight   = 0.5
	LocationWeight = 0.3
	SummaryWeight  = 0.2
)

// neighborhoodIndicators are the Portuguese locality markers recognized by
// Neighborhood.
var neighborhoodIndicators = []string{"bairro", "comunidade", "morro", "favela", "complexo"}

// Neighborhood extracts the neighborhood name from a location string: the
// substring after the first recognized indicator up to the next comma.
// When no indicator is present, it returns the whole string trimmed (spec
// §9 Open Question: current behavior is a fallback pass-through, kept as
// documented rather than guessed at).
func Neighborhood(location string) *string {
	if location == "" {
		return nil
	}
	lower := strings.ToLower(location)
	for _, ind := range neighborhoodIndicators {
		idx := strings.Index(lower, ind)
		if idx == -1 {
			continue
		}
		rest := lower[idx+len(ind):]
		if comma := strings.Index(rest, ","); comma != -1 {
			rest = rest[:comma]
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		return &rest
	}
	whole := strings.TrimSpace(location)
	return &whole
}

// Candidate pairs an Incident with the total score it received against the
// extraction under evaluation.
type Candidate struct {
	Incident *domain.Incident
	Score    float64
}

// Score computes the weighted total score of an extraction against a
// single candidate Incident. Components with
// missing operands contribute 0.
func Score(ev *domain.ExtractedEvent, inc *domain.Incident) float64 {
	var total float64

	if ev.ExtractedVictimName != nil && *ev.ExtractedVictimName != "" && inc.Title != "" {
		victimScore := fuzzy.Ratio(*ev.ExtractedVictimName, inc.Title)
		if inc.Description != nil && *inc.Description != "" {
			descScore := fuzzy.Ratio(*ev.ExtractedVictimName, *inc.Description)
			if descScore > victimScore {
				victimScore = descScore
			}
		}
		total += victimScore * VictimWeight
	}

	if ev.ExtractedLocation != nil && *ev.ExtractedLocation != "" && inc.Location != nil && *inc.Location != "" {
		locScore := fuzzy.Ratio(*ev.ExtractedLocation, *inc.Location)

		extNeighborhood := Neighborhood(*ev.ExtractedLocation)
		var incNeighborhood *string
		if inc.Neighborhood != nil && *inc.Neighborhood != "" {
			incNeighborhood = inc.Neighborhood
		} else if inc.Location != nil {
			incNeighborhood = Neighborhood(*inc.Location)
		}

		if extNeighborhood != nil && incNeighborhood != nil {
			neighborhoodScore := fuzzy.Ratio(*extNeighborhood, *incNeighborhood)
			if neighborhoodScore > locScore {
				locScore = neighborhoodScore
			}
		}
		total += locScore * LocationWeight
	}

	if ev.Summary != "" && inc.Description != nil && *inc.Description != "" {
		summaryScore := fuzzy.Ratio(ev.Summary, *inc.Description)
		total += summaryScore * SummaryWeight
	}

	return total
}

// Resolve picks the highest-scoring candidate among incidents. Ties are
// broken by insertion order — the caller is expected to pass incidents in
// insertion order (store.IncidentStore.CandidatesWithinWindow orders by
// id, which is time-ordered for uuid v7). Returns (nil, bestScoreSeen) when
// nothing clears MatchThreshold, and (nil, 0) when incidents is empty.
func Resolve(ev *domain.ExtractedEvent, incidents []*domain.Incident) (*domain.Incident, float64) {
	if ev.ExtractedDate == nil {
		return nil, 0
	}

	var best *domain.Incident
	var bestScore float64
	for _, inc := range incidents {
		score := Score(ev, inc)
		if score > bestScore {
			bestScore = score
			best = inc
		}
	}

	if bestScore >= MatchThreshold {
		return best, bestScore
	}
	return nil, bestScore
}
