package stages

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// Markdown renders md entries to html. The entry format becomes html and
// the URL extension is rewritten accordingly.
func Markdown() pipeline.Stage {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return pipeline.Map("markdown", func(env *pipeline.Env, e *model.Entry) (*model.Entry, error) {
		if e.Format != model.FormatMD || e.Content == nil {
			return e, nil
		}
		var buf bytes.Buffer
		if err := md.Convert([]byte(*e.Content), &buf); err != nil {
			return nil, pipeline.NewItemError("rendering markdown", entryPath(e), err)
		}
		out := e.WithContent(buf.String())
		out.Format = model.FormatHTML
		out.URL = htmlURL(out.URL)
		return out, nil
	})
}

// htmlURL rewrites a .md output path to .html.
func htmlURL(url string) string {
	if strings.HasSuffix(url, ".md") {
		return strings.TrimSuffix(url, ".md") + ".html"
	}
	return url
}
