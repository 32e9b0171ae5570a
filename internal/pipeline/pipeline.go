package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/observability"
)

// Source feeds the first pipe of the chain. It must close out before
// returning, success or not.
type Source func(ctx context.Context, env *Env, out *Pipe[*model.Entry]) error

// Pipeline is a fixed ordered stage chain built once per run.
type Pipeline struct {
	source   Source
	stages   []Stage
	capacity int
	recorder *observability.Recorder
}

// New creates a pipeline fed by source, with pipes of the given capacity.
func New(source Source, capacity int) *Pipeline {
	return &Pipeline{source: source, capacity: capacity}
}

// WithRecorder attaches a metrics recorder.
func (p *Pipeline) WithRecorder(r *observability.Recorder) *Pipeline {
	p.recorder = r
	return p
}

// Add appends a stage unconditionally.
func (p *Pipeline) Add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, s Stage) *Pipeline {
	if cond {
		p.Add(s)
	}
	return p
}

// Run wires one pipe per adjacency, starts one independent worker per
// stage plus one for the source, then joins all workers. Overall success
// requires every worker to have succeeded: a failing upstream stage still
// lets downstream stages drain to a clean end-of-stream, so checking only
// "all pipes drained" would silently accept a truncated build. The first
// real stage error in chain order is the one surfaced.
func (p *Pipeline) Run(ctx context.Context, env *Env) error {
	if p.source == nil {
		return fmt.Errorf("pipeline has no source")
	}
	if len(p.stages) == 0 {
		return fmt.Errorf("pipeline has no stages")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := len(p.stages) + 1
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("start worker pool: %w", err)
	}
	defer pool.Release()

	pipes := make([]*Pipe[*model.Entry], len(p.stages))
	for i := range pipes {
		pipes[i] = NewPipe[*model.Entry](p.capacity)
	}

	start := time.Now()
	results := make([]error, workers)
	var wg sync.WaitGroup

	launch := func(idx int, name string, run func() error) error {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			sctx := observability.WithStage(ctx, name)
			observability.Debug(sctx, "stage started")
			t0 := time.Now()
			err := run()
			results[idx] = err
			result := "success"
			if err != nil {
				if Aborted(err) {
					result = "aborted"
				} else {
					result = "error"
				}
				// Unblock senders whose consumer is gone.
				cancel()
			}
			p.recorder.ObserveStage(name, time.Since(t0), result)
			observability.Debug(sctx, "stage finished")
		})
		if submitErr != nil {
			wg.Done()
		}
		return submitErr
	}

	if err := launch(0, "source", func() error {
		return p.source(ctx, env, pipes[0])
	}); err != nil {
		return fmt.Errorf("start source worker: %w", err)
	}
	for i, stage := range p.stages {
		var out *Pipe[*model.Entry]
		if i < len(pipes)-1 {
			out = pipes[i+1]
		}
		in := pipes[i]
		if err := launch(i+1, stage.Name(), func() error {
			return stage.Run(ctx, env, in, out)
		}); err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("start stage %s: %w", stage.Name(), err)
		}
	}

	wg.Wait()

	for i, stage := range p.stages {
		if i < len(pipes)-1 {
			p.recorder.AddStageItems(stage.Name(), int(pipes[i+1].Sent()))
		}
	}

	err = reduceResults(results)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	p.recorder.ObserveBuild(time.Since(start), outcome)
	return err
}

// reduceResults picks the error to surface: the first non-secondary stage
// error in chain order, falling back to the first error of any kind.
func reduceResults(results []error) error {
	var first error
	for _, err := range results {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		if !Aborted(err) {
			return err
		}
	}
	return first
}
