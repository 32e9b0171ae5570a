package model

import (
	"path"
	"strings"
	"time"

	"github.com/karlseguin/typed"
)

// Format tags an entry with the kind of payload it carries and selects
// which later stages apply to it.
type Format string

const (
	FormatHTML Format = "html"
	FormatMD   Format = "md"
	FormatData Format = "data"
	FormatCSS  Format = "css"
	FormatJS   Format = "js"
	FormatText Format = "text"
)

// Renderable reports whether entries of this format carry page content.
func (f Format) Renderable() bool {
	return f == FormatHTML || f == FormatMD
}

// InputFile is the handle to the source file an entry was read from.
// Entries synthesized by a barrier stage have no InputFile.
type InputFile struct {
	Path    string // path relative to the input directory
	Dir     string // directory portion of Path
	Name    string // file name without extension
	Ext     string // extension including the leading dot
	Size    int64
	ModTime time.Time
}

// NewInputFile builds an InputFile from a path relative to the input root.
func NewInputFile(rel string, size int64, modTime time.Time) *InputFile {
	ext := path.Ext(rel)
	return &InputFile{
		Path:    rel,
		Dir:     path.Dir(rel),
		Name:    strings.TrimSuffix(path.Base(rel), ext),
		Ext:     ext,
		Size:    size,
		ModTime: modTime,
	}
}

// Stem is the file path without its extension, used as the join key for
// the data cascade and the language grouping.
func (f *InputFile) Stem() string {
	return strings.TrimSuffix(f.Path, f.Ext)
}

// EntryData is the structured metadata attached to an entry, either parsed
// from front matter or adopted from a sibling data file.
type EntryData struct {
	Title    string            `yaml:"title"`
	URL      string            `yaml:"url"`  // explicit output URL override
	Date     *time.Time        `yaml:"date"` // explicit date override
	Contents map[string]string `yaml:"contents"`
	Extra    typed.Typed       `yaml:"-"` // everything else
}

// Clone returns a deep copy of the data.
func (d *EntryData) Clone() *EntryData {
	if d == nil {
		return nil
	}
	out := &EntryData{
		Title: d.Title,
		URL:   d.URL,
	}
	if d.Date != nil {
		t := *d.Date
		out.Date = &t
	}
	if d.Contents != nil {
		out.Contents = make(map[string]string, len(d.Contents))
		for k, v := range d.Contents {
			out.Contents[k] = v
		}
	}
	if d.Extra != nil {
		out.Extra = typed.Typed(deepCopyMap(d.Extra))
	}
	return out
}

// Entry is the universal document unit flowing through the pipeline.
//
// Entries are immutable values: a stage consumes one entry and produces a
// new owned entry via Clone, never mutating a shared instance in place.
// The one exception is the explicitly shared Site aggregate.
type Entry struct {
	File    *InputFile
	Content *string
	Data    *EntryData
	Format  Format
	URL     string // normalized output path, always begins with "/"
	Date    *time.Time

	// Page-level language metadata, populated by the language grouping
	// stage for html entries.
	Lang         string
	Translations map[string]string
}

// Clone returns a deep copy of the entry. InputFile is shared since it is
// never mutated after discovery.
func (e *Entry) Clone() *Entry {
	out := &Entry{
		File:   e.File,
		Format: e.Format,
		URL:    e.URL,
		Lang:   e.Lang,
	}
	if e.Content != nil {
		c := *e.Content
		out.Content = &c
	}
	out.Data = e.Data.Clone()
	if e.Date != nil {
		t := *e.Date
		out.Date = &t
	}
	if e.Translations != nil {
		out.Translations = make(map[string]string, len(e.Translations))
		for k, v := range e.Translations {
			out.Translations[k] = v
		}
	}
	return out
}

// WithContent returns a copy of the entry carrying the given content.
func (e *Entry) WithContent(content string) *Entry {
	out := e.Clone()
	out.Content = &content
	return out
}

// Stem returns the entry's join key: the source path without extension for
// file-backed entries, or the URL without extension for synthesized ones.
func (e *Entry) Stem() string {
	if e.File != nil {
		return e.File.Stem()
	}
	u := strings.TrimPrefix(e.URL, "/")
	return strings.TrimSuffix(u, path.Ext(u))
}

// Title returns the entry title, if any.
func (e *Entry) Title() string {
	if e.Data == nil {
		return ""
	}
	return e.Data.Title
}

// Page is a typed view over an html entry.
type Page struct{ *Entry }

// AsPage wraps an entry; the caller is responsible for checking the format.
func AsPage(e *Entry) Page { return Page{e} }

// Script is a typed view over a bundled js entry.
type Script struct{ *Entry }

// Style is a typed view over a bundled css entry.
type Style struct{ *Entry }

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case typed.Typed:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
