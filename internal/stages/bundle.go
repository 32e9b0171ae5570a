package stages

import (
	"fmt"
	"path"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Bundle inlines referenced sibling entries into the entries that declare
// a contents metadata map (key to relative path, "." meaning the entry's
// own content). Referenced entries are consumed unless they are themselves
// bundling entries. The reference graph is assumed acyclic; cycles are not
// detected.
func Bundle() pipeline.Stage {
	return pipeline.Barrier("bundle", func(env *pipeline.Env, entries []*model.Entry) ([]*model.Entry, error) {
		byPath := make(map[string]int, len(entries))
		for i, e := range entries {
			if e.File != nil {
				byPath[e.File.Path] = i
			}
		}

		remove := make(map[int]bool)
		keep := make(map[int]bool)
		out := make([]*model.Entry, len(entries))
		copy(out, entries)

		for i, e := range entries {
			if e.Data == nil || len(e.Data.Contents) == 0 {
				continue
			}
			bundled := e.Clone()
			for key, rel := range e.Data.Contents {
				var content string
				switch {
				case rel == ".":
					if e.Content != nil {
						content = *e.Content
					}
				default:
					target := path.Join(dirOf(e), rel)
					j, ok := byPath[target]
					if !ok {
						return nil, pipeline.NewItemError("bundling", entryPath(e),
							fmt.Errorf("no entry at %s (referenced as %q)", target, rel))
					}
					if entries[j].Content != nil {
						content = *entries[j].Content
					}
					remove[j] = true
				}
				bundled.Data.Contents[key] = content
			}
			keep[i] = true
			out[i] = bundled
		}

		kept := out[:0]
		for i, e := range out {
			if remove[i] && !keep[i] {
				continue
			}
			kept = append(kept, e)
		}
		return kept, nil
	})
}

// dirOf returns the directory the entry's relative references resolve
// against.
func dirOf(e *model.Entry) string {
	if e.File != nil {
		return e.File.Dir
	}
	return path.Dir(e.URL)
}
