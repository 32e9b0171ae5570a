package stages

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

var minifyTypes = map[model.Format]string{
	model.FormatHTML: "text/html",
	model.FormatCSS:  "text/css",
	model.FormatJS:   "application/javascript",
}

// Minify shrinks html, css and js payloads. It is a no-op in debug mode.
func Minify() pipeline.Stage {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("application/json", json.Minify)
	return pipeline.Map("minify", func(env *pipeline.Env, e *model.Entry) (*model.Entry, error) {
		if env.Config.Debug || e.Content == nil {
			return e, nil
		}
		mediatype, ok := minifyTypes[e.Format]
		if !ok {
			return e, nil
		}
		minified, err := m.String(mediatype, *e.Content)
		if err != nil {
			return nil, pipeline.NewItemError("minifying", entryPath(e), err)
		}
		return e.WithContent(minified), nil
	})
}
