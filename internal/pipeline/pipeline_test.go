package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
)

// numberedSource emits n entries tagged with a sequential marker.
func numberedSource(n int) Source {
	return func(ctx context.Context, env *Env, out *Pipe[*model.Entry]) error {
		defer out.Close()
		for i := 0; i < n; i++ {
			e := urlEntry("/" + strconv.Itoa(i))
			if err := out.Send(ctx, e); err != nil {
				return err
			}
		}
		return nil
	}
}

// collector is a terminal stage recording the URLs it receives.
type collector struct {
	mu   sync.Mutex
	urls []string
}

func (c *collector) stage() Stage {
	return Map("collect", func(env *Env, e *model.Entry) (*model.Entry, error) {
		c.mu.Lock()
		c.urls = append(c.urls, e.URL)
		c.mu.Unlock()
		return nil, nil
	})
}

func passthrough(name string) Stage {
	return Map(name, func(env *Env, e *model.Entry) (*model.Entry, error) { return e, nil })
}

func TestPipelinePreservesOrderEndToEnd(t *testing.T) {
	const n = 500
	sink := &collector{}

	p := New(numberedSource(n), 8).
		Add(passthrough("one")).
		Add(passthrough("two")).
		Add(Barrier("gather", func(env *Env, entries []*model.Entry) ([]*model.Entry, error) {
			return entries, nil
		})).
		Add(passthrough("three")).
		Add(sink.stage())

	require.NoError(t, p.Run(context.Background(), &Env{}))

	require.Len(t, sink.urls, n)
	for i, url := range sink.urls {
		require.Equal(t, "/"+strconv.Itoa(i), url)
	}
}

func TestPipelineSurfacesUpstreamFailure(t *testing.T) {
	boom := errors.New("item 3 is cursed")
	sink := &collector{}

	p := New(numberedSource(10), 2).
		Add(Map("explode", func(env *Env, e *model.Entry) (*model.Entry, error) {
			if e.URL == "/3" {
				return nil, boom
			}
			return e, nil
		})).
		Add(passthrough("after")).
		Add(sink.stage())

	err := p.Run(context.Background(), &Env{})
	require.ErrorIs(t, err, boom)

	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "explode", se.Stage)

	// Downstream drained to a clean end-of-stream; only items before the
	// failure got through.
	require.Less(t, len(sink.urls), 10)
}

func TestPipelineFirstRealErrorWins(t *testing.T) {
	boom := errors.New("root cause")

	// A failing mid stage leaves the source blocked on a full pipe; the
	// source's aborted send must not mask the root cause.
	p := New(numberedSource(100), 1).
		Add(Map("explode", func(env *Env, e *model.Entry) (*model.Entry, error) {
			return nil, boom
		})).
		Add(Map("sink", func(env *Env, e *model.Entry) (*model.Entry, error) {
			return nil, nil
		}))

	err := p.Run(context.Background(), &Env{})
	require.ErrorIs(t, err, boom)
	require.False(t, Aborted(err))
}

func TestPipelineTerminalFailurePropagates(t *testing.T) {
	boom := errors.New("disk full")

	p := New(numberedSource(50), 2).
		Add(passthrough("one")).
		Add(Map("write", func(env *Env, e *model.Entry) (*model.Entry, error) {
			if e.URL == "/10" {
				return nil, boom
			}
			return nil, nil
		}))

	err := p.Run(context.Background(), &Env{})
	require.ErrorIs(t, err, boom)
}

func TestPipelineCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(numberedSource(1000), 1).
		Add(passthrough("one")).
		Add(Map("sink", func(env *Env, e *model.Entry) (*model.Entry, error) { return nil, nil }))

	err := p.Run(ctx, &Env{})
	require.Error(t, err)
}

func TestPipelineRequiresSourceAndStages(t *testing.T) {
	require.Error(t, New(nil, 1).Add(passthrough("x")).Run(context.Background(), &Env{}))
	require.Error(t, New(numberedSource(1), 1).Run(context.Background(), &Env{}))
}

func TestReduceResults(t *testing.T) {
	boom := errors.New("boom")
	aborted := fmt.Errorf("send: %w", ErrPipeClosed)

	require.NoError(t, reduceResults([]error{nil, nil}))
	require.ErrorIs(t, reduceResults([]error{nil, boom, nil}), boom)
	require.ErrorIs(t, reduceResults([]error{aborted, boom}), boom)
	require.ErrorIs(t, reduceResults([]error{aborted, nil}), ErrPipeClosed)
}
