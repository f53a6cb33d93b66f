// Package feed implements the Feed Fetcher (C6): it expands a base query
// over topic/geo terms and one-day time windows, and parses the resulting
// aggregator RSS feeds into Entry values.
package feed

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is the minimal unit the Feed Fetcher yields: a link and a title,
// and optionally a structured publication time.
type Entry struct {
	Link        string
	Title       string
	PublishedAt *time.Time
}

// Query describes one cell of the expansion grid the fetcher pulls.
type Query struct {
	BaseQuery string
	StartDate *time.Time
	EndDate   *time.Time
	Expand    bool
	Geo       bool
}

// Fetcher pulls Entry values from the aggregator feed endpoint.
type Fetcher struct {
	host   string
	parser *gofeed.Parser
}

// New builds a Fetcher targeting aggregatorHost (e.g. "news.google.com").
func New(aggregatorHost string) *Fetcher {
	return &Fetcher{host: aggregatorHost, parser: gofeed.NewParser()}
}

// feedURL builds the upstream feed URL:
// <aggregator-rss>?q=<urlencoded-query>&hl=pt-BR&gl=BR&ceid=BR:pt-419
func (f *Fetcher) feedURL(query string) string {
	return fmt.Sprintf("https://%s/rss/search?q=%s&hl=pt-BR&gl=BR&ceid=BR:pt-419", f.host, url.QueryEscape(query))
}

// FetchQuery fetches a single query string with optional after:/before:
// clauses appended, matching the upstream query-syntax convention (spec
// §6). A query without date bounds returns a single unbounded pull.
func (f *Fetcher) FetchQuery(ctx context.Context, query string, after, before *time.Time) ([]Entry, error) {
	full := query
	if after != nil {
		full += fmt.Sprintf(" after:%s", after.Format("2006-01-02"))
	}
	if before != nil {
		full += fmt.Sprintf(" before:%s", before.Format("2006-01-02"))
	}

	parsed, err := f.parser.ParseURLWithContext(f.feedURL(full), ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: parse %q: %w", full, err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		e := Entry{Link: item.Link, Title: item.Title}
		if item.PublishedParsed != nil {
			utc := item.PublishedParsed.UTC()
			e.PublishedAt = &utc
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FetchAll expands q into a one-calendar-day-window grid:
// when StartDate/EndDate are both set, it steps one day at a
// time from start (inclusive) to end (exclusive); otherwise it makes a
// single unbounded pull. The fetcher does not deduplicate across grid
// cells.
func (f *Fetcher) FetchAll(ctx context.Context, q Query) ([]Entry, error) {
	if q.StartDate == nil || q.EndDate == nil {
		return f.FetchQuery(ctx, q.BaseQuery, nil, nil)
	}

	var all []Entry
	current := *q.StartDate
	for current.Before(*q.EndDate) {
		next := current.AddDate(0, 0, 1)
		if next.After(*q.EndDate) {
			next = *q.EndDate
		}
		after := current
		before := next
		entries, err := f.FetchQuery(ctx, q.BaseQuery, &after, &before)
		if err != nil {
			return all, err
		}
		all = append(all, entries...)
		current = next
	}
	return all, nil
}

// ExpandQueries builds the expansion grid's query-string list: the base
// query alone, plus one per topic-expansion term when expand is true, plus
// the geo-expansion terms when geo is true.
func ExpandQueries(baseQuery string, expand, geo bool) []string {
	queries := []string{baseQuery}

	if expand {
		for _, term := range ExpansionTerms {
			queries = append(queries, fmt.Sprintf(`%s "%s"`, baseQuery, term))
		}
	}
	if geo {
		queries = append(queries, GeoQueries()...)
	}
	return queries
}
