package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/domain"
)

func strp(s string) *string { return &s }

func TestNeighborhoodWithIndicator(t *testing.T) {
	got := Neighborhood("Rua X, Bairro Copacabana, Rio de Janeiro")
	require.NotNil(t, got)
	assert.Equal(t, "copacabana", *got)
}

func TestNeighborhoodFallbackPassThrough(t *testing.T) {
	got := Neighborhood("Just a street address")
	require.NotNil(t, got)
	assert.Equal(t, "Just a street address", *got)
}

func TestNeighborhoodEmpty(t *testing.T) {
	assert.Nil(t, Neighborhood(""))
}

func TestScoreBoundsAndMissingOperands(t *testing.T) {
	ev := &domain.ExtractedEvent{}
	inc := &domain.Incident{}
	assert.Equal(t, 0.0, Score(ev, inc))

	ev.ExtractedVictimName = strp("João da Silva")
	inc.Title = "Morte de Joao Silva"
	score := Score(ev, inc)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestResolveNoDateYieldsEmptyCandidateSet(t *testing.T) {
	ev := &domain.ExtractedEvent{}
	incidents := []*domain.Incident{{Title: "x"}}
	match, score := Resolve(ev, incidents)
	assert.Nil(t, match)
	assert.Equal(t, 0.0, score)
}

func TestResolvePicksHighestAboveThreshold(t *testing.T) {
	date := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	ev := &domain.ExtractedEvent{
		ExtractedDate:       &date,
		ExtractedVictimName: strp("João da Silva"),
		ExtractedLocation:   strp("Bairro Copacabana"),
		Summary:             "Homem foi morto a tiros em Copacabana.",
	}
	loc := "Copacabana"
	incidents := []*domain.Incident{
		{Title: "Morte de Joao Silva", Date: date, Location: &loc},
	}
	match, score := Resolve(ev, incidents)
	require.NotNil(t, match)
	assert.GreaterOrEqual(t, score, MatchThreshold)
}

func TestResolveBelowThresholdReturnsNilWithBestScore(t *testing.T) {
	date := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	ev := &domain.ExtractedEvent{
		ExtractedDate:       &date,
		ExtractedVictimName: strp("Zzz Totally Unrelated"),
	}
	incidents := []*domain.Incident{
		{Title: "Morte de Outra Pessoa", Date: date},
	}
	match, score := Resolve(ev, incidents)
	assert.Nil(t, match)
	assert.Less(t, score, MatchThreshold)
}
