package stages

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
	"github.com/charlyisidore/vitrine-sub001/internal/pipeline"
)

// FrontMatter extracts the leading YAML front matter block of content
// entries into their metadata and strips it from the content, and parses
// the whole payload of data entries. Malformed front matter and malformed
// data files are per-item errors that fail the build.
func FrontMatter() pipeline.Stage {
	return pipeline.Map("frontmatter", func(env *pipeline.Env, e *model.Entry) (*model.Entry, error) {
		switch {
		case e.Format == model.FormatData:
			return parseDataEntry(e)
		case e.Format.Renderable() && e.Content != nil:
			return extractFrontMatter(e)
		default:
			return e, nil
		}
	})
}

// parseDataEntry parses a data file (YAML or JSON; JSON is a YAML subset)
// into entry metadata. Data entries carry no renderable content.
func parseDataEntry(e *model.Entry) (*model.Entry, error) {
	if e.Content == nil {
		return e, nil
	}
	var m map[string]any
	if err := yaml.Unmarshal([]byte(*e.Content), &m); err != nil {
		return nil, pipeline.NewItemError("parsing data file", entryPath(e), err)
	}
	data, err := dataFromMap(m)
	if err != nil {
		return nil, pipeline.NewItemError("parsing data file", entryPath(e), err)
	}
	out := e.Clone()
	out.Content = nil
	out.Data = data
	return out, nil
}

// extractFrontMatter splits a leading "---" delimited YAML block off the
// content. The delimiter handling follows the usual conventions: an
// opening delimiter on the first line, a closing delimiter on its own
// line, CRLF tolerated.
func extractFrontMatter(e *model.Entry) (*model.Entry, error) {
	content := *e.Content
	var lineEnd string
	switch {
	case strings.HasPrefix(content, "---\r\n"):
		lineEnd = "\r\n"
	case strings.HasPrefix(content, "---\n"):
		lineEnd = "\n"
	default:
		return e, nil
	}
	startLen := 3 + len(lineEnd)

	endMarker := lineEnd + "---" + lineEnd
	endIdx := strings.Index(content[startLen:], endMarker)
	if endIdx == -1 {
		// Closing delimiter at end of file without trailing newline.
		if strings.HasSuffix(content[startLen:], lineEnd+"---") {
			endIdx = len(content[startLen:]) - len(lineEnd) - 3
			endMarker = lineEnd + "---"
		} else if strings.HasPrefix(content[startLen:], "---"+lineEnd) {
			// Empty block: "---\n---\n".
			endIdx = 0
			endMarker = "---" + lineEnd
		} else {
			return nil, pipeline.NewItemError("parsing front matter", entryPath(e),
				fmt.Errorf("missing closing delimiter"))
		}
	}

	block := content[startLen : startLen+endIdx]
	body := content[startLen+endIdx+len(endMarker):]

	out := e.Clone()
	out.Content = &body

	if strings.TrimSpace(block) == "" {
		return out, nil
	}

	var m map[string]any
	if err := yaml.Unmarshal([]byte(block), &m); err != nil {
		return nil, pipeline.NewItemError("parsing front matter", entryPath(e), err)
	}
	data, err := dataFromMap(m)
	if err != nil {
		return nil, pipeline.NewItemError("parsing front matter", entryPath(e), err)
	}
	out.Data = data
	applyDataOverrides(out)
	return out, nil
}
