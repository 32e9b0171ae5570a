package stages

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Languages groups html pages that are translations of each other: a
// language suffix in the file stem (post.fr.md next to post.md) assigns
// the page a language, and every page of a group receives the full sibling
// map language to URL. Pages without a suffix get the configured default
// language. Requires full-collection knowledge, hence a barrier.
func Languages() pipeline.Stage {
	return pipeline.Barrier("languages", func(env *pipeline.Env, entries []*model.Entry) ([]*model.Entry, error) {
		type pageKey struct{ base, lang string }
		groups := make(map[string]map[string]string)

		keys := make([]pageKey, len(entries))
		for i, e := range entries {
			if e.Format != model.FormatHTML || e.File == nil {
				continue
			}
			base, lang := splitLangStem(e.File.Stem())
			if lang == "" {
				lang = env.Config.DefaultLang
			}
			keys[i] = pageKey{base: base, lang: lang}
			if lang == "" {
				continue
			}
			if groups[base] == nil {
				groups[base] = make(map[string]string)
			}
			groups[base][lang] = e.URL
		}

		out := make([]*model.Entry, len(entries))
		for i, e := range entries {
			key := keys[i]
			siblings := groups[key.base]
			if key.lang == "" || len(siblings) == 0 {
				out[i] = e
				continue
			}
			page := e.Clone()
			page.Lang = key.lang
			page.Translations = make(map[string]string, len(siblings))
			for lang, url := range siblings {
				page.Translations[lang] = url
			}
			out[i] = page
		}
		return out, nil
	})
}

// splitLangStem splits a trailing language suffix off a path stem:
// "blog/post.fr" yields ("blog/post", "fr"). The suffix must parse as a
// well-formed language tag; anything else is part of the name.
func splitLangStem(stem string) (base, lang string) {
	idx := strings.LastIndex(stem, ".")
	if idx < 0 {
		return stem, ""
	}
	candidate := stem[idx+1:]
	tag, err := language.Parse(candidate)
	if err != nil || tag == language.Und {
		return stem, ""
	}
	return stem[:idx], candidate
}
