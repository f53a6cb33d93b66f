package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	got, err := Parse("2024-05-09T10:00:00-03:00", DefaultMinYear, now)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.May, got.Month())
	assert.Equal(t, 9, got.Day())
}

func TestParseRejectsFuture(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err := Parse("2030-01-01", DefaultMinYear, now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseRejectsTooOld(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err := Parse("1999-01-01", 2000, now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseEmptyString(t *testing.T) {
	_, err := Parse("", DefaultMinYear, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseCalendarDate(t *testing.T) {
	got, err := ParseCalendarDate("2024-05-09")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	_, err = ParseCalendarDate("ontem")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestReconcilePrefersMetadata(t *testing.T) {
	meta := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	feed := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	got := Reconcile(&meta, &feed)
	require.NotNil(t, got)
	assert.Equal(t, meta, *got)
}

func TestReconcileFallsBackToFeed(t *testing.T) {
	feed := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	got := Reconcile(nil, &feed)
	require.NotNil(t, got)
	assert.Equal(t, feed, *got)
}

func TestReconcileNeverUsesFetchedAt(t *testing.T) {
	got := Reconcile(nil, nil)
	assert.Nil(t, got)
}
