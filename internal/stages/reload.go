package stages

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// ReloadScript is the tag injected into every page in watch mode. The
// script itself is served by the live-reload transport, which is not part
// of the pipeline.
const ReloadScript = `<script src="/.vitrine/reload.js"></script>`

// Reload injects the live-reload script tag before the closing body tag of
// html pages. It is a no-op outside watch mode and in debug mode.
func Reload() pipeline.Stage {
	return pipeline.Map("reload", func(env *pipeline.Env, e *model.Entry) (*model.Entry, error) {
		if !env.Watching || env.Config.Debug {
			return e, nil
		}
		if e.Format != model.FormatHTML || e.Content == nil {
			return e, nil
		}
		return e.WithContent(injectBeforeBodyEnd(*e.Content, ReloadScript)), nil
	})
}

// injectBeforeBodyEnd splices snippet in front of the document's </body>
// end tag, located with a tokenizer so stray "</body>" text inside scripts
// or comments is not mistaken for markup. Documents without a body end tag
// get the snippet appended.
func injectBeforeBodyEnd(content, snippet string) string {
	z := html.NewTokenizer(strings.NewReader(content))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return content + snippet
		}
		raw := len(z.Raw())
		if tt == html.EndTagToken {
			if name, _ := z.TagName(); string(name) == "body" {
				return content[:offset] + snippet + content[offset:]
			}
		}
		offset += raw
	}
}
