// Package build assembles and runs the site build pipeline: the fixed
// ordered stage chain from source discovery to the terminal write stage.
package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/charlyisidore/vitrine-sub001/internal/config"
	"github.com/charlyisidore/vitrine-sub001/internal/discover"
	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/observability"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
	"github.com/charlyisidore/vitrine-sub001/internal/stages"
)

// Options tune a single run.
type Options struct {
	// Watching enables the live-reload injection stage.
	Watching bool

	// Recorder collects pipeline metrics; nil disables collection.
	Recorder *observability.Recorder
}

// Run executes one full build and returns the populated site aggregate.
// Any single item or stage error aborts the whole build; there is no
// partial-continuation mode.
func Run(ctx context.Context, cfg *config.Config, fs afero.Fs, opts Options) (*model.Site, error) {
	ctx = observability.WithBuild(ctx)

	site := model.NewSite(cfg.Taxonomies)
	env := &pipeline.Env{
		Config:   cfg,
		Site:     site,
		FS:       fs,
		Watching: opts.Watching,
	}

	p := pipeline.New(discover.Source(), cfg.ChannelCapacity).
		WithRecorder(opts.Recorder).
		Add(stages.Read()).
		Add(stages.FrontMatter()).
		Add(stages.Cascade()).
		Add(stages.Bundle()).
		Add(stages.Markdown()).
		Add(stages.Taxonomies()).
		Add(stages.Languages()).
		AddIf(cfg.NavigationKey() != "", stages.Navigation()).
		AddIf(opts.Watching, stages.Reload()).
		Add(stages.Minify()).
		Add(stages.Write())

	start := time.Now()
	observability.Info(ctx, "build started",
		slog.String("input", cfg.InputDir),
		slog.String("output", cfg.OutputDir))

	if err := p.Run(ctx, env); err != nil {
		observability.Error(ctx, "build failed", slog.Any("error", err))
		return nil, err
	}

	observability.Info(ctx, "build finished",
		slog.Duration("elapsed", time.Since(start)))
	return site, nil
}
