// Package pipeline wires the domain, store, content, keywords, llmclient,
// and dedup packages into the four pipeline stages (C7 Ingest, C8 Download,
// C10 Extract, C12 Enrich) described in the component design. Ingest
// processes a whole feed grid per call; Download, Extract and Enrich each
// process exactly one record per call and commit their own mutation, and
// callers (the CLI's bounded worker pools, or the orchestrator) decide how
// many records run concurrently.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/content"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/dateutil"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/dedup"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/domain"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/feed"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/keywords"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/llmclient"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/store"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/urlresolver"
)

// Pipeline bundles every collaborator a stage function needs. It holds no
// per-record state, so a single Pipeline value is shared across all workers.
type Pipeline struct {
	Sources    *store.SourceStore
	Events     *store.ExtractedEventStore
	Incidents  *store.IncidentStore
	Resolver   *urlresolver.Resolver
	Reconciler *content.Reconciler
	Classifier llmclient.Classifier
	Downloader Downloader
	MinYear    int
	Logger     *zap.Logger
}

// Ingest runs the Feed Fetcher (C6) over the expansion grid and inserts a
// pending Source for every entry whose URL is not already known (C7). It
// returns the IDs of newly inserted sources, the signal the queue/CLI layer
// uses to decide whether to chain into the Download stage.
func (p *Pipeline) Ingest(ctx context.Context, fetcher *feed.Fetcher, q feed.Query) ([]uuid.UUID, error) {
	queries := feed.ExpandQueries(q.BaseQuery, q.Expand, q.Geo)

	var inserted []uuid.UUID
	for _, query := range queries {
		entries, err := fetcher.FetchAll(ctx, feed.Query{BaseQuery: query, StartDate: q.StartDate, EndDate: q.EndDate})
		if err != nil {
			p.Logger.Warn("feed query failed, continuing with remaining queries", zap.String("query", query), zap.Error(err))
			continue
		}

		for _, entry := range entries {
			existing, err := p.Sources.GetByURL(ctx, entry.Link)
			if err != nil && err != store.ErrNotFound {
				return inserted, fmt.Errorf("pipeline: ingest lookup %s: %w", entry.Link, err)
			}
			if existing != nil {
				if existing.PublishedAt == nil && entry.PublishedAt != nil {
					if err := p.Sources.UpdatePublishedAt(ctx, existing.ID, *entry.PublishedAt); err != nil {
						return inserted, err
					}
				}
				continue
			}

			src := &domain.Source{
				URL:         entry.Link,
				Title:       entry.Title,
				SourceType:  "news",
				Status:      domain.SourceStatusPending,
				PublishedAt: entry.PublishedAt,
			}
			if err := src.Validate(); err != nil {
				p.Logger.Warn("skipping invalid feed entry", zap.Error(err))
				continue
			}
			if err := p.Sources.Insert(ctx, src); err != nil {
				return inserted, fmt.Errorf("pipeline: ingest insert: %w", err)
			}
			inserted = append(inserted, src.ID)
		}
	}
	return inserted, nil
}

// Download runs stage C8 for a single Source: resolve the aggregator URL,
// fetch the body, reconcile content, and commit resolved_url/content/status/
// published_at together.
func (p *Pipeline) Download(ctx context.Context, sourceID uuid.UUID, force bool) error {
	src, err := p.Sources.GetByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("pipeline: download get source: %w", err)
	}
	if !domain.CanTransition(src.Status, domain.SourceStatusDownloaded, force) {
		p.Logger.Debug("download skipped, transition not allowed", zap.String("source_id", src.ID.String()), zap.String("status", string(src.Status)))
		return nil
	}

	resolved := p.Resolver.Resolve(ctx, src.URL)
	html, err := p.Downloader.Fetch(ctx, resolved)
	if err != nil {
		if markErr := p.Sources.UpdateStatus(ctx, src.ID, domain.SourceStatusFailed); markErr != nil {
			p.Logger.Error("failed to mark source failed", zap.Error(markErr))
		}
		return fmt.Errorf("pipeline: download fetch %s: %w", resolved, err)
	}

	reconciled := p.Reconciler.Reconcile(html)
	publishedAt := dateutil.Reconcile(reconciled.PublicationDate, src.PublishedAt)

	src.ResolvedURL = &resolved
	src.Content = &reconciled.Body
	src.PublishedAt = publishedAt
	if err := src.ApplyTransition(domain.SourceStatusDownloaded, force); err != nil {
		return fmt.Errorf("pipeline: download transition: %w", err)
	}

	if err := p.Sources.UpdateAfterDownload(ctx, src); err != nil {
		return fmt.Errorf("pipeline: download commit: %w", err)
	}
	return nil
}

// Extract runs stage C10 for a single Source: screen with the keyword
// filter (C1), and only call the LLM Extractor (C9) on a hit. An empty
// keyword hit set marks the source processed without ever reaching the
// language model.
func (p *Pipeline) Extract(ctx context.Context, sourceID uuid.UUID, force bool) error {
	src, err := p.Sources.GetByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("pipeline: extract get source: %w", err)
	}
	if !domain.CanTransition(src.Status, domain.SourceStatusProcessed, force) {
		p.Logger.Debug("extract skipped, transition not allowed", zap.String("source_id", src.ID.String()), zap.String("status", string(src.Status)))
		return nil
	}

	body := ""
	if src.Content != nil {
		body = *src.Content
	}

	hits := keywords.MatchSlice(body)
	if len(hits) == 0 {
		if err := src.ApplyTransition(domain.SourceStatusProcessed, force); err != nil {
			return fmt.Errorf("pipeline: extract transition: %w", err)
		}
		return p.Sources.UpdateStatus(ctx, src.ID, domain.SourceStatusProcessed)
	}

	reply := p.Classifier.Classify(ctx, body, hits, src.PublishedAt)

	ev := &domain.ExtractedEvent{
		SourceID:            src.ID,
		Summary:             reply.Summary,
		ExtractedVictimName: reply.VictimName,
		ExtractedLocation:   reply.Location,
		ConfidenceScore:     reply.Confidence,
	}
	ev.ExtractedDate = resolveExtractedDate(reply.Date)

	if err := p.Events.Upsert(ctx, ev, force); err != nil {
		return fmt.Errorf("pipeline: extract upsert event: %w", err)
	}

	if err := src.ApplyTransition(domain.SourceStatusProcessed, force); err != nil {
		return fmt.Errorf("pipeline: extract transition: %w", err)
	}
	return p.Sources.UpdateStatus(ctx, src.ID, domain.SourceStatusProcessed)
}

// EnrichOptions controls the manual enrich/deduplicate CLI flags.
type EnrichOptions struct {
	DryRun   bool // compute the match but never write a link or a new Incident
	NoCreate bool // leave unmatched extractions unlinked instead of minting an Incident
}

// Enrich runs stage C12 for a single ExtractedEvent: find candidate
// Incidents within the ±1-day window (C11 blocking), score them, and either
// link the best match or mint a new canonical Incident.
func (p *Pipeline) Enrich(ctx context.Context, eventID uuid.UUID, opts EnrichOptions) error {
	ev, err := p.Events.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("pipeline: enrich get event: %w", err)
	}
	if ev.ExtractedDate == nil {
		p.Logger.Debug("enrich skipped, no extracted date", zap.String("event_id", ev.ID.String()))
		return nil
	}

	candidates, err := p.Incidents.CandidatesWithinWindow(ctx, *ev.ExtractedDate)
	if err != nil {
		return fmt.Errorf("pipeline: enrich candidates: %w", err)
	}

	match, _ := dedup.Resolve(ev, candidates)
	if match != nil {
		if opts.DryRun {
			p.Logger.Info("dry-run: would link to existing incident", zap.String("event_id", ev.ID.String()), zap.String("incident_id", match.ID.String()))
			return nil
		}
		return p.Events.LinkIncident(ctx, ev.ID, match.ID)
	}

	if opts.NoCreate {
		return nil
	}
	if opts.DryRun {
		p.Logger.Info("dry-run: would create new incident", zap.String("event_id", ev.ID.String()))
		return nil
	}

	inc := &domain.Incident{
		Title:       incidentTitle(ev),
		Date:        *ev.ExtractedDate,
		Location:    ev.ExtractedLocation,
		Description: descriptionOrNil(ev.Summary),
		Confirmed:   false,
	}
	if ev.ExtractedLocation != nil {
		inc.Neighborhood = dedup.Neighborhood(*ev.ExtractedLocation)
	}
	if err := p.Incidents.Create(ctx, inc); err != nil {
		return fmt.Errorf("pipeline: enrich create incident: %w", err)
	}
	return p.Events.LinkIncident(ctx, ev.ID, inc.ID)
}

// ReEnrichIncident recomputes an Incident's title, location and
// neighborhood from its currently linked ExtractedEvents, for operator-
// triggered manual re-enrichment. The event with the
// highest confidence score among the linked set is treated as the
// authoritative source for victim name and location, mirroring how Enrich
// itself would have scored it had all of them arrived in the same pass.
func (p *Pipeline) ReEnrichIncident(ctx context.Context, incidentID uuid.UUID, dryRun bool) error {
	inc, err := p.Incidents.GetByID(ctx, incidentID)
	if err != nil {
		return fmt.Errorf("pipeline: re-enrich get incident: %w", err)
	}

	linked, err := p.Events.ListByIncident(ctx, incidentID)
	if err != nil {
		return fmt.Errorf("pipeline: re-enrich list linked events: %w", err)
	}
	if len(linked) == 0 {
		p.Logger.Debug("re-enrich skipped, no linked events", zap.String("incident_id", inc.ID.String()))
		return nil
	}

	best := bestByConfidence(linked)
	inc.Title = incidentTitle(best)
	inc.Location = best.ExtractedLocation
	inc.Description = descriptionOrNil(best.Summary)
	if best.ExtractedLocation != nil {
		inc.Neighborhood = dedup.Neighborhood(*best.ExtractedLocation)
	}

	if dryRun {
		p.Logger.Info("dry-run: would update incident", zap.String("incident_id", inc.ID.String()), zap.String("title", inc.Title))
		return nil
	}
	return p.Incidents.Update(ctx, inc)
}

// bestByConfidence returns the event with the highest ConfidenceScore,
// breaking ties toward the first (earliest-ordered) candidate.
func bestByConfidence(events []*domain.ExtractedEvent) *domain.ExtractedEvent {
	best := events[0]
	for _, ev := range events[1:] {
		if ev.ConfidenceScore > best.ConfidenceScore {
			best = ev
		}
	}
	return best
}

// resolveExtractedDate parses the LLM reply's date string, if present, into
// a calendar date. A missing or unparsable date stays nil — it is never
// backfilled from the source's publish date, so Enrich's blocking query
// correctly skips events with no trustworthy extracted date rather than
// matching or minting an Incident against one.
func resolveExtractedDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	parsed, err := dateutil.ParseCalendarDate(*raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// incidentTitle derives an Incident's title from an ExtractedEvent:
// victim name wins, else the extracted date in DD/MM/YYYY, else a fixed
// placeholder for a wholly unidentified incident.
func incidentTitle(ev *domain.ExtractedEvent) string {
	if ev.ExtractedVictimName != nil && *ev.ExtractedVictimName != "" {
		return fmt.Sprintf("Morte de %s", *ev.ExtractedVictimName)
	}
	if ev.ExtractedDate != nil {
		return fmt.Sprintf("Homicídio - %s", ev.ExtractedDate.Format("02/01/2006"))
	}
	return "Homicídio - Data desconhecida"
}

func descriptionOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
