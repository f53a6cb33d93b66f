package main

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/bodyextract"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/config"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/content"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/feed"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/llmclient"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/logging"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/notify"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/pipeline"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/store"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/telemetry"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/urlresolver"
)

// resolverInterval is the minimum pacing between aggregator URL decodes
//.
const resolverInterval = 1 * time.Second

// classifierModel is the language model the LLM Extractor (C9) targets.
const classifierModel = anthropic.ModelClaude3_5HaikuLatest

// app bundles everything a subcommand needs, built once from the
// environment and torn down on exit.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	fetcher  *feed.Fetcher
	sink     notify.Sink

	closers []func()
}

func bootstrap(ctx context.Context, component string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("archiveviolencia: load config: %w", err)
	}

	logger, err := logging.New(component, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("archiveviolencia: init logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if cfg.OTLPEndpoint != "" {
		tp, err := telemetry.InitTracer(ctx, "archiveviolencia", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("otel tracer init failed, continuing without tracing", zap.Error(err))
		} else {
			a.closers = append(a.closers, func() { _ = tp.Shutdown(context.Background()) })
		}
	}

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("archiveviolencia: connect store: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	sources := store.NewSourceStore(pool)
	events := store.NewExtractedEventStore(pool)
	incidents := store.NewIncidentStore(pool)

	decoder := urlresolver.NewHTTPRedirectDecoder()
	resolver := urlresolver.New(decoder, cfg.AggregatorHost, resolverInterval, logger)

	extractor := bodyextract.NewGoqueryExtractor()
	reconciler := content.New(extractor, cfg.MinYear, logger)

	classifier := llmclient.NewAnthropicClassifier(cfg.AnthropicAPIKey, classifierModel, logger)

	a.pipeline = &pipeline.Pipeline{
		Sources:    sources,
		Events:     events,
		Incidents:  incidents,
		Resolver:   resolver,
		Reconciler: reconciler,
		Classifier: classifier,
		Downloader: pipeline.NewHTTPDownloader(),
		MinYear:    cfg.MinYear,
		Logger:     logger,
	}
	a.fetcher = feed.New(cfg.AggregatorHost)
	a.sink = notify.NewLoggingSink(logger, nil)

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
