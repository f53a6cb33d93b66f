package main

import (
	"fmt"
	"time"
)

const dateFlagLayout = "2006-01-02"

// parseDateFlag parses a --start-date/--end-date style flag. An empty
// string is not an error; it means the flag was not set.
func parseDateFlag(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFlagLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", raw, err)
	}
	t = t.UTC()
	return &t, nil
}
