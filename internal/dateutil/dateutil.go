// Package dateutil implements the Date Utilities component (C2): parsing,
// validation, and reconciliation of publication dates drawn from several
// sources of varying trust.
package dateutil

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultMinYear is the lower bound for any parsed or reconciled publication
// date when the caller does not override it.
const DefaultMinYear = 2000

// ErrInvalidDate is returned by Parse when the input cannot be interpreted
// as a calendar date, or falls outside [minYear-01-01, now].
var ErrInvalidDate = fmt.Errorf("dateutil: invalid date")

// Parse interprets dateStr as ISO-8601 or any other common representation.
// A naive (no zone offset) result is treated as already UTC; a zoned result
// is converted to UTC. The returned time is always naive-UTC (Location set
// to time.UTC, with the original offset folded in). Parse fails with
// ErrInvalidDate when the string doesn't parse, is after now, or is before
// minYear-01-01.
func Parse(dateStr string, minYear int, now time.Time) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, ErrInvalidDate
	}
	parsed, err := dateparse.ParseAny(dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	utc := parsed.UTC()
	naive := time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), utc.Nanosecond(), time.UTC)

	if naive.After(now) {
		return time.Time{}, fmt.Errorf("%w: %s is in the future", ErrInvalidDate, dateStr)
	}
	minDate := time.Date(minYear, 1, 1, 0, 0, 0, 0, time.UTC)
	if naive.Before(minDate) {
		return time.Time{}, fmt.Errorf("%w: %s is before min year %d", ErrInvalidDate, dateStr, minYear)
	}
	return naive, nil
}

// ParseCalendarDate parses a YYYY-MM-DD string into a naive-UTC midnight
// time, used for the LLM extractor's date field. Returns
// ErrInvalidDate on any parse failure; callers leave extracted_date null
// rather than propagate the error.
func ParseCalendarDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return t, nil
}

// Reconcile picks the best publication date given the extractor-metadata
// date (highest trust) and the feed-supplied date, returning nil when
// neither is set. It takes no fetch time and never returns one as a
// publication date.
func Reconcile(metadataDate, feedDate *time.Time) *time.Time {
	if metadataDate != nil {
		return metadataDate
	}
	if feedDate != nil {
		return feedDate
	}
	return nil
}
