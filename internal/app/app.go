package app

import (
	"context"
	"log/slog"

	"RecallScanner/internal/config"
	"RecallScanner/internal/infrastructure/fetch"
	"RecallScanner/internal/infrastructure/llm"
	"RecallScanner/internal/infrastructure/storage"
	"RecallScanner/internal/ports"
	"RecallScanner/internal/source"
	"RecallScanner/internal/transform"
	"RecallScanner/internal/usecase"
)

// Application wires configs to the pipeline use case.
type Application struct {
	pipeline *usecase.Pipeline

	// classifierErr is surfaced when a stage that needs the classifier is
	// requested; extract, load, and the USDA transform run without it.
	classifierErr error
}

// New builds a runnable application instance.
func New(cfg config.Config, logger *slog.Logger) *Application {
	store := storage.NewFileStore(cfg.Data.Dir)
	fetcher := fetch.NewClient(cfg.Fetch)

	var classifier ports.Classifier
	oracle, clsErr := llm.NewOracleClient(cfg.Classifier)
	if clsErr == nil {
		classifier = llm.NewRetryingClassifier(oracle, cfg.Classifier, logger.With("component", "classifier"))
	}

	registry := source.NewRegistry()
	registry.Register(transform.NewFDASource(store, fetcher, classifier, cfg.Fetch.PageDelay(),
		logger.With("component", "source.fda")))
	registry.Register(transform.NewUSDASource(store, logger.With("component", "source.usda")))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:  fetcher,
		Records:  store,
		Raw:      store,
		Registry: registry,
		Feeds:    cfg.Feeds,
		Logger:   logger.With("component", "pipeline"),
	})

	return &Application{pipeline: pipeline, classifierErr: clsErr}
}

// Extract runs the extract stage.
func (a *Application) Extract(ctx context.Context) error {
	return a.pipeline.Extract(ctx)
}

// Transform runs the transform stage for one agency source.
func (a *Application) Transform(ctx context.Context, name string) error {
	if name == "fda" && a.classifierErr != nil {
		return a.classifierErr
	}
	return a.pipeline.Transform(ctx, name)
}

// Load runs the load stage for one agency source.
func (a *Application) Load(ctx context.Context, name string) error {
	return a.pipeline.Load(ctx, name)
}

// Run executes the full pipeline for both agencies.
func (a *Application) Run(ctx context.Context) error {
	if a.classifierErr != nil {
		return a.classifierErr
	}
	return a.pipeline.Run(ctx)
}
