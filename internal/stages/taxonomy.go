package stages

import (
	"github.com/samber/lo"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Taxonomies indexes pages into the shared site aggregate: for every
// configured taxonomy key present in a page's metadata, a snapshot of the
// page is appended under each of its terms, preserving arrival order with
// no deduplication. Entries pass through unchanged.
//
// The site's write lock is taken once per page and never held across a
// pipe operation.
func Taxonomies() pipeline.Stage {
	return pipeline.Barrier("taxonomies", func(env *pipeline.Env, entries []*model.Entry) ([]*model.Entry, error) {
		for _, e := range entries {
			if e.Format != model.FormatHTML || e.Data == nil || e.Data.Extra == nil {
				continue
			}
			page := model.AsPage(e)
			for _, key := range env.Config.Taxonomies {
				value, ok := page.Data.Extra[key]
				if !ok {
					continue
				}
				for _, term := range termsOf(value) {
					env.Site.AddTaxonomyItem(key, term, snapshot(page))
				}
			}
		}
		return entries, nil
	})
}

// termsOf normalizes a metadata value to a list of terms: a single string
// or an array of strings; anything else yields no terms.
func termsOf(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	default:
		return nil
	}
}

// snapshot copies the indexable part of a page; the item never references
// the page itself.
func snapshot(page model.Page) model.TaxonomyItem {
	item := model.TaxonomyItem{URL: page.URL}
	if page.Date != nil {
		t := *page.Date
		item.Date = &t
	}
	if data := page.Data.Clone(); data != nil {
		item.Data = data.Extra
	}
	return item
}
