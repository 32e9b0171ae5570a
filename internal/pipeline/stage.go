package pipeline

import (
	"context"

	"github.com/spf13/afero"

	"github.com/charlyisidore/vitrine-sub001/internal/config"
	"github.com/charlyisidore/vitrine-sub001/internal/model"
)

// Env carries the per-run collaborators a stage may need: the build
// configuration, the shared site aggregate and the filesystem used by the
// reading and writing stages.
type Env struct {
	Config *config.Config
	Site   *model.Site
	FS     afero.Fs

	// Watching enables the live-reload injection stage.
	Watching bool
}

// Stage is one unit of the build chain. Run loops over the inbound pipe,
// writes to the outbound pipe and returns its result; the outbound pipe is
// nil for the terminal stage. A stage must close its outbound pipe before
// returning, success or not, so downstream consumers observe end-of-stream.
type Stage interface {
	Name() string
	Run(ctx context.Context, env *Env, in, out *Pipe[*model.Entry]) error
}

// MapFunc transforms one entry. It may return a new owned entry, drop the
// item by returning (nil, nil), or fail the stage.
type MapFunc func(env *Env, e *model.Entry) (*model.Entry, error)

// BarrierFunc computes over the whole drained collection and returns the
// new ordered sequence to emit.
type BarrierFunc func(env *Env, entries []*model.Entry) ([]*model.Entry, error)

type mapStage struct {
	name string
	fn   MapFunc
}

// Map builds a per-item streaming stage: a tight receive-transform-send
// loop. With one worker per stage the loop preserves item order for free.
func Map(name string, fn MapFunc) Stage {
	return &mapStage{name: name, fn: fn}
}

func (s *mapStage) Name() string { return s.name }

func (s *mapStage) Run(ctx context.Context, env *Env, in, out *Pipe[*model.Entry]) error {
	if out != nil {
		defer out.Close()
	}
	for {
		entry, ok, err := in.Recv(ctx)
		if err != nil {
			return NewStageError(s.name, err)
		}
		if !ok {
			return nil
		}
		next, err := s.fn(env, entry)
		if err != nil {
			return NewStageError(s.name, err)
		}
		if next == nil || out == nil {
			continue
		}
		if err := out.Send(ctx, next); err != nil {
			return NewStageError(s.name, err)
		}
	}
}

type barrierStage struct {
	name string
	fn   BarrierFunc
}

// Barrier builds a whole-collection stage: it materializes the entire
// upstream in memory before producing any output, making it a full
// synchronization point of the pipeline. This bounds scalability by the
// collection size; a two-pass streaming redesign is a deliberate non-goal.
func Barrier(name string, fn BarrierFunc) Stage {
	return &barrierStage{name: name, fn: fn}
}

func (s *barrierStage) Name() string { return s.name }

func (s *barrierStage) Run(ctx context.Context, env *Env, in, out *Pipe[*model.Entry]) error {
	if out != nil {
		defer out.Close()
	}
	var entries []*model.Entry
	for {
		entry, ok, err := in.Recv(ctx)
		if err != nil {
			return NewStageError(s.name, err)
		}
		if !ok {
			break
		}
		entries = append(entries, entry)
	}
	emitted, err := s.fn(env, entries)
	if err != nil {
		return NewStageError(s.name, err)
	}
	if out == nil {
		return nil
	}
	for _, entry := range emitted {
		if err := out.Send(ctx, entry); err != nil {
			return NewStageError(s.name, err)
		}
	}
	return nil
}
