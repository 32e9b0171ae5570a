package stages

import (
	"context"
	"testing"
	"time"

	"github.com/karlseguin/typed"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/charlyisidore/vitrine-sub001/internal/config"
	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// runStage pushes entries through a single stage and returns its output.
func runStage(t *testing.T, stage pipeline.Stage, env *pipeline.Env, entries ...*model.Entry) ([]*model.Entry, error) {
	t.Helper()
	ctx := context.Background()

	in := pipeline.NewPipe[*model.Entry](len(entries) + 1)
	for _, e := range entries {
		require.NoError(t, in.Send(ctx, e))
	}
	in.Close()

	out := pipeline.NewPipe[*model.Entry](len(entries) + 8)
	runErr := stage.Run(ctx, env, in, out)

	var got []*model.Entry
	for {
		e, ok, err := out.Recv(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, e)
	}
	return got, runErr
}

func testEnv(cfg *config.Config) *pipeline.Env {
	if cfg == nil {
		cfg = config.Default()
	}
	return &pipeline.Env{
		Config: cfg,
		Site:   model.NewSite(cfg.Taxonomies),
		FS:     afero.NewMemMapFs(),
	}
}

func fileEntry(rel string, format model.Format, content string) *model.Entry {
	e := &model.Entry{
		File:   model.NewInputFile(rel, int64(len(content)), time.Time{}),
		Format: format,
		URL:    "/" + rel,
	}
	if content != "" {
		e.Content = &content
	}
	return e
}

func withData(e *model.Entry, extra typed.Typed) *model.Entry {
	e.Data = &model.EntryData{Extra: extra}
	return e
}

func urls(entries []*model.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.URL
	}
	return out
}
