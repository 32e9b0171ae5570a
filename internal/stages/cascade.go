package stages

import (
	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Cascade merges sibling data files into content entries lacking inline
// metadata: a page blog/post.md with no front matter adopts the parsed
// payload of blog/post.json (or .yaml), and the consumed data entry is
// dropped from the output set.
//
// When two data entries share a stem the last one inserted wins; that
// collision is undefined behavior upstream and nothing should rely on it.
func Cascade() pipeline.Stage {
	return pipeline.Barrier("cascade", func(env *pipeline.Env, entries []*model.Entry) ([]*model.Entry, error) {
		type dataSource struct {
			path string
			data *model.EntryData
		}
		byStem := make(map[string]dataSource)
		for _, e := range entries {
			if e.Format == model.FormatData && e.File != nil && e.Data != nil {
				byStem[e.Stem()] = dataSource{path: e.File.Path, data: e.Data}
			}
		}
		if len(byStem) == 0 {
			return entries, nil
		}

		consumed := make(map[string]bool)
		out := make([]*model.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Format.Renderable() && e.Data == nil {
				if src, ok := byStem[e.Stem()]; ok {
					adopted := e.Clone()
					adopted.Data = src.data.Clone()
					applyDataOverrides(adopted)
					consumed[src.path] = true
					out = append(out, adopted)
					continue
				}
			}
			out = append(out, e)
		}

		kept := out[:0]
		for _, e := range out {
			if e.File != nil && consumed[e.File.Path] {
				continue
			}
			kept = append(kept, e)
		}
		return kept, nil
	})
}
