package stages

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Write is the terminal side-effecting stage: every entry with content is
// written to the output directory at its URL path. Each output file is an
// independent artifact; files written before a later failure stay on disk,
// no rollback is attempted.
func Write() pipeline.Stage {
	return pipeline.Map("write", func(env *pipeline.Env, e *model.Entry) (*model.Entry, error) {
		if e.Content == nil {
			return nil, nil
		}
		target := filepath.Join(env.Config.OutputDir, filepath.FromSlash(outputPath(e.URL)))
		if err := env.FS.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, pipeline.NewItemError("writing", e.URL, err)
		}
		if err := afero.WriteFile(env.FS, target, []byte(*e.Content), 0o644); err != nil {
			return nil, pipeline.NewItemError("writing", e.URL, err)
		}
		return nil, nil
	})
}

// outputPath maps a "/"-rooted URL to a relative file path; a directory
// URL gets an index.html.
func outputPath(url string) string {
	p := strings.TrimPrefix(url, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	return p
}
