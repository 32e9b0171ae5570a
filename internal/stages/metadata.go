package stages

import (
	"fmt"
	"strings"
	"time"

	"github.com/karlseguin/typed"

	"github.com/charlyisidore/vitrine-sub001/internal/model"
)

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// dataFromMap splits a parsed metadata map into the well-known entry
// fields and the free-form remainder.
func dataFromMap(m map[string]any) (*model.EntryData, error) {
	data := &model.EntryData{Extra: typed.Typed{}}
	for key, value := range m {
		switch key {
		case "title":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("title must be a string, got %T", value)
			}
			data.Title = s
		case "url":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("url must be a string, got %T", value)
			}
			data.URL = s
		case "date":
			t, err := parseDate(value)
			if err != nil {
				return nil, err
			}
			data.Date = t
		case "contents":
			contents, err := parseContents(value)
			if err != nil {
				return nil, err
			}
			data.Contents = contents
		default:
			data.Extra[key] = value
		}
	}
	return data, nil
}

func parseDate(value any) (*time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("unrecognized date %q", v)
	default:
		return nil, fmt.Errorf("date must be a string or timestamp, got %T", value)
	}
}

func parseContents(value any) (map[string]string, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("contents must be a map, got %T", value)
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("contents[%s] must be a path string, got %T", k, v)
		}
		out[k] = s
	}
	return out, nil
}

// applyDataOverrides propagates explicit url and date metadata onto the
// entry. The url invariant holds: it always begins with "/".
func applyDataOverrides(e *model.Entry) {
	if e.Data == nil {
		return
	}
	if e.Data.URL != "" {
		url := e.Data.URL
		if !strings.HasPrefix(url, "/") {
			url = "/" + url
		}
		e.URL = url
	}
	if e.Data.Date != nil {
		t := *e.Data.Date
		e.Date = &t
	}
}

// entryPath returns the best path to name an entry by in error messages.
func entryPath(e *model.Entry) string {
	if e.File != nil {
		return e.File.Path
	}
	return e.URL
}
