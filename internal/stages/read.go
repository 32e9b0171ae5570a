package stages

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Read loads the source file of every file-backed entry. Synthesized
// entries and entries already carrying content pass through unchanged.
func Read() pipeline.Stage {
	return pipeline.Map("read", func(env *pipeline.Env, e *model.Entry) (*model.Entry, error) {
		if e.File == nil || e.Content != nil {
			return e, nil
		}
		raw, err := afero.ReadFile(env.FS, filepath.Join(env.Config.InputDir, filepath.FromSlash(e.File.Path)))
		if err != nil {
			return nil, pipeline.NewItemError("reading", e.File.Path, err)
		}
		return e.WithContent(string(raw)), nil
	})
}
