package stages

import (
	"strings"

	"github.com/karlseguin/typed"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Navigation builds a URL-segment trie from every html entry, then injects
// each page's serialized subtree into its metadata under the configured
// key. Existing metadata under that key is never overwritten. The tree is
// discarded once the subtrees are copied out.
func Navigation() pipeline.Stage {
	return pipeline.Barrier("navigation", func(env *pipeline.Env, entries []*model.Entry) ([]*model.Entry, error) {
		key := env.Config.NavigationKey()
		if key == "" {
			return entries, nil
		}

		tree := model.NewNavigationTree()
		for _, e := range entries {
			if e.Format == model.FormatHTML {
				tree.Insert(navPath(e.URL), e.Title())
			}
		}

		out := make([]*model.Entry, len(entries))
		for i, e := range entries {
			if e.Format != model.FormatHTML {
				out[i] = e
				continue
			}
			node := tree.Lookup(navPath(e.URL))
			if node == nil {
				out[i] = e
				continue
			}
			if e.Data != nil && e.Data.Extra != nil {
				if _, exists := e.Data.Extra[key]; exists {
					out[i] = e
					continue
				}
			}
			injected := e.Clone()
			if injected.Data == nil {
				injected.Data = &model.EntryData{}
			}
			if injected.Data.Extra == nil {
				injected.Data.Extra = typed.Typed{}
			}
			injected.Data.Extra[key] = node.Serialize()
			out[i] = injected
		}
		return out, nil
	})
}

// navPath strips the rendering artifacts off a page URL so the trie is
// keyed by logical path segments: "/blog/post.html" sits at
// ["blog", "post"], "/blog/index.html" at ["blog"].
func navPath(url string) string {
	p := strings.TrimSuffix(url, ".html")
	p = strings.TrimSuffix(p, "/index")
	if p == "" {
		return "/"
	}
	return p
}
