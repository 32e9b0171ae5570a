package discover

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// formatByExt maps source file extensions to entry formats. Unknown
// extensions become plain text entries.
var formatByExt = map[string]model.Format{
	".md":       model.FormatMD,
	".markdown": model.FormatMD,
	".html":     model.FormatHTML,
	".htm":      model.FormatHTML,
	".css":      model.FormatCSS,
	".js":       model.FormatJS,
	".json":     model.FormatData,
	".yaml":     model.FormatData,
	".yml":      model.FormatData,
}

// Source walks the input directory and feeds the pipeline one entry per
// source file, in lexical path order. Hidden files and paths matching an
// ignore glob are skipped.
func Source() pipeline.Source {
	return func(ctx context.Context, env *pipeline.Env, out *pipeline.Pipe[*model.Entry]) error {
		defer out.Close()

		root := env.Config.InputDir
		var paths []string
		err := afero.Walk(env.FS, root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)
			if rel == "." {
				return nil
			}
			if hidden(rel) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			ignored, matchErr := matchesAny(env.Config.Ignore, rel)
			if matchErr != nil {
				return matchErr
			}
			if ignored {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.IsDir() {
				paths = append(paths, rel)
			}
			return nil
		})
		if err != nil {
			return pipeline.NewStageError("source", fmt.Errorf("discovering %s: %w", root, err))
		}
		sort.Strings(paths)

		for _, rel := range paths {
			info, err := env.FS.Stat(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return pipeline.NewStageError("source", pipeline.NewItemError("discovering", rel, err))
			}
			entry := &model.Entry{
				File:   model.NewInputFile(rel, info.Size(), info.ModTime()),
				Format: formatOf(rel),
				URL:    "/" + rel,
			}
			if err := out.Send(ctx, entry); err != nil {
				return pipeline.NewStageError("source", err)
			}
		}
		return nil
	}
}

func formatOf(rel string) model.Format {
	if f, ok := formatByExt[strings.ToLower(path.Ext(rel))]; ok {
		return f
	}
	return model.FormatText
}

// hidden reports whether any path segment starts with a dot or an
// underscore (output and partial directories stay out of the build).
func hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") || strings.HasPrefix(seg, "_") {
			return true
		}
	}
	return false
}

// matchesAny matches rel against each ignore glob, against the whole path
// and against its base name.
func matchesAny(globs []string, rel string) (bool, error) {
	for _, g := range globs {
		ok, err := path.Match(g, rel)
		if err != nil {
			return false, fmt.Errorf("bad ignore pattern %q: %w", g, err)
		}
		if ok {
			return true, nil
		}
		ok, err = path.Match(g, path.Base(rel))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
