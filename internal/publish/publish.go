// Package publish runs the full publication pipeline: every synthesized
// voice is packed into a sample archive, then the catalog document is
// rendered against the cached voice feed. Stages run in order and the first
// failure stops the run.
package publish

import (
	"context"
	"log/slog"
	"strconv"

	"herald/internal/archive"
	"herald/internal/catalog"
	"herald/internal/config"
	"herald/internal/logging"
	"herald/internal/notifications"
	"herald/internal/runlock"
	"herald/internal/services"
	"herald/internal/voices"
)

// Pipeline owns the publish stages and their shared configuration.
type Pipeline struct {
	cfg      *config.Config
	archiver *archive.Archiver
	notifier notifications.Service
	root     *slog.Logger
	logger   *slog.Logger
}

// Result aggregates the outcome of both stages.
type Result struct {
	Packs   []archive.Pack
	Catalog *catalog.Result
}

// NewPipeline constructs the pipeline with default dependencies.
func NewPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	return NewPipelineWithDependencies(cfg, logger, notifications.NewService(cfg))
}

// NewPipelineWithDependencies allows injecting the notifier (used in tests).
func NewPipelineWithDependencies(cfg *config.Config, logger *slog.Logger, notifier notifications.Service) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		archiver: archive.NewArchiver(cfg, logger),
		notifier: notifier,
		root:     logger,
		logger:   logging.NewComponentLogger(logger, "publish"),
	}
}

// Run publishes the output tree. The voice feed must be cached already; a
// missing feed fails the run before any catalog output is written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	release, err := runlock.Acquire(p.cfg.LockPath())
	if err != nil {
		return nil, err
	}
	defer release()

	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "run", "ensure directories", err)
	}

	packs, err := p.archiver.Run(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := voices.Load(p.cfg.VoicesCachePath())
	if err != nil {
		return nil, err
	}

	renderer := catalog.NewRenderer(p.cfg, voices.NewResolver(entries), p.root)
	rendered, err := renderer.Run(ctx)
	if err != nil {
		return nil, err
	}

	p.notifyCompleted(ctx, len(packs), rendered)
	p.logger.Info("publish completed",
		logging.Int("archives", len(packs)),
		logging.Int("catalog_packs", rendered.Packs))

	return &Result{Packs: packs, Catalog: rendered}, nil
}

func (p *Pipeline) notifyCompleted(ctx context.Context, archives int, rendered *catalog.Result) {
	document := rendered.Document
	if document == "" {
		document = "not written"
	}
	err := p.notifier.Publish(ctx, notifications.EventPublishCompleted, notifications.Payload{
		"archives": strconv.Itoa(archives),
		"document": document,
	})
	if err != nil {
		p.logger.Warn("completion notification failed", logging.Error(err))
	}
}
