package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/domain"
)

func TestIncidentTitlePrefersVictimName(t *testing.T) {
	name := "João da Silva"
	ev := &domain.ExtractedEvent{ExtractedVictimName: &name, Summary: "Resumo."}
	assert.Equal(t, "Morte de João da Silva", incidentTitle(ev))
}

func TestIncidentTitleFallsBackToDate(t *testing.T) {
	date := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	ev := &domain.ExtractedEvent{ExtractedDate: &date}
	assert.Equal(t, "Homicídio - 09/05/2024", incidentTitle(ev))
}

func TestIncidentTitleFallsBackToPlaceholder(t *testing.T) {
	ev := &domain.ExtractedEvent{}
	assert.Equal(t, "Homicídio - Data desconhecida", incidentTitle(ev))
}

func TestDescriptionOrNil(t *testing.T) {
	assert.Nil(t, descriptionOrNil(""))
	got := descriptionOrNil("x")
	assert.NotNil(t, got)
	assert.Equal(t, "x", *got)
}

func TestBestByConfidencePicksHighestScore(t *testing.T) {
	low := &domain.ExtractedEvent{ConfidenceScore: 0.4}
	high := &domain.ExtractedEvent{ConfidenceScore: 0.9}
	mid := &domain.ExtractedEvent{ConfidenceScore: 0.6}
	assert.Same(t, high, bestByConfidence([]*domain.ExtractedEvent{low, high, mid}))
}

func TestBestByConfidenceSingleEvent(t *testing.T) {
	only := &domain.ExtractedEvent{ConfidenceScore: 0.5}
	assert.Same(t, only, bestByConfidence([]*domain.ExtractedEvent{only}))
}

func TestResolveExtractedDateNilWhenReplyOmitsDate(t *testing.T) {
	assert.Nil(t, resolveExtractedDate(nil))
}

func TestResolveExtractedDateNilWhenUnparsable(t *testing.T) {
	raw := "not a date"
	assert.Nil(t, resolveExtractedDate(&raw))
}

func TestResolveExtractedDateParsesCalendarDate(t *testing.T) {
	raw := "2024-05-09"
	got := resolveExtractedDate(&raw)
	if assert.NotNil(t, got) {
		assert.Equal(t, "2024-05-09", got.Format("2006-01-02"))
	}
}
