package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"RecallScanner/internal/config"
	"RecallScanner/internal/merge"
	"RecallScanner/internal/ports"
	"RecallScanner/internal/source"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Fetcher  ports.Fetcher
	Records  ports.RecallStore
	Raw      ports.RawStore
	Registry *source.Registry
	Feeds    config.FeedsConfig
	Logger   *slog.Logger
}

// Pipeline implements the recall ingestion workflow: extract raw feed
// documents, transform them into staged batches, and load staged batches
// into the canonical record set.
type Pipeline struct {
	fetcher  ports.Fetcher
	records  ports.RecallStore
	raw      ports.RawStore
	registry *source.Registry
	feeds    config.FeedsConfig
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		fetcher:  deps.Fetcher,
		records:  deps.Records,
		raw:      deps.Raw,
		registry: deps.Registry,
		feeds:    deps.Feeds,
		logger:   deps.Logger,
	}
}

// Extract fetches the agency feed documents and writes their raw bytes for
// the transform stage.
func (p *Pipeline) Extract(ctx context.Context) error {
	documents := []struct {
		name string
		url  string
	}{
		{ports.RawFDAListing, p.feeds.FDARSSURL},
		{ports.RawUSDAFeed, p.feeds.USDAAPIURL},
		{ports.RawUSDAListing, p.feeds.USDARSSURL},
	}

	for _, doc := range documents {
		p.logger.Info("fetching feed document", "url", doc.url)
		data, err := p.fetcher.Get(ctx, doc.url)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", doc.url, err)
		}
		if err := p.raw.WriteRaw(doc.name, data); err != nil {
			return fmt.Errorf("store %s: %w", doc.name, err)
		}
		p.logger.Info("wrote raw document", "name", doc.name, "bytes", len(data))
	}

	return nil
}

// Transform stages one agency's batch from the raw documents of this run.
func (p *Pipeline) Transform(ctx context.Context, name string) error {
	src, err := p.registry.Resolve(name)
	if err != nil {
		return err
	}

	batch, err := src.Stage(ctx)
	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}

	if err := p.records.SaveStaged(src.Agency(), batch); err != nil {
		return fmt.Errorf("save staged %s batch: %w", name, err)
	}

	p.logger.Info("staged batch written", "agency", src.Agency(), "records", len(batch))
	return nil
}

// Load merges one agency's staged batch into the canonical record set and
// rewrites the document. The write is all-or-nothing: a failure leaves the
// previous document intact.
func (p *Pipeline) Load(_ context.Context, name string) error {
	src, err := p.registry.Resolve(name)
	if err != nil {
		return err
	}
	agency := src.Agency()

	existing, err := p.records.LoadCanonical()
	if err != nil {
		return fmt.Errorf("load canonical set: %w", err)
	}

	staged, err := p.records.LoadStaged(agency)
	if err != nil {
		return fmt.Errorf("load staged %s batch: %w", name, err)
	}

	merged, added := merge.Merge(existing, staged, agency, p.logger)
	if added == 0 {
		p.logger.Info("no new records to add", "agency", agency)
		return nil
	}

	if err := p.records.SaveCanonical(merged); err != nil {
		return fmt.Errorf("save canonical set: %w", err)
	}

	p.logger.Info("canonical set updated", "agency", agency, "added", added, "total", len(merged))
	return nil
}

// Run executes the full pipeline: extract once, then transform and load each
// agency in turn.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Extract(ctx); err != nil {
		return err
	}

	for _, name := range []string{"fda", "usda"} {
		if err := p.Transform(ctx, name); err != nil {
			return err
		}
		if err := p.Load(ctx, name); err != nil {
			return err
		}
	}

	return nil
}
