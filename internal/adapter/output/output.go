// Package output provides output formatters for notes.
package output

import (
	"io"
	"text/template"

	"github.com/jmylchreest/wallmemo/internal/scene"
)

// Note is one stored note as presented to the user.
type Note struct {
	Index int    `json:"index" yaml:"index"`
	Text  string `json:"text" yaml:"text"`
	Label string `json:"label" yaml:"label"`
}

// Notes pairs each note with its index and the label drawn on the wallpaper.
func Notes(notes []string, rowNumbers bool) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = Note{
			Index: i,
			Text:  n,
			Label: scene.Label(i, n, scene.Options{RowNumbers: rowNumbers}),
		}
	}
	return out
}

// Formatter formats notes for output.
type Formatter interface {
	// Format writes formatted notes to the writer.
	Format(w io.Writer, notes []Note) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
	FormatYAML  FormatType = "yaml"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template  string // Custom template for dmenu/plain format
	MaxLen    int    // Maximum text length (0 = unlimited)
	Separator string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		Separator: " | ",
	}
}

// CheckTemplate reports whether tmpl parses with the formatter functions.
func CheckTemplate(tmpl string) error {
	if tmpl == "" {
		return nil
	}
	_, err := template.New("check").Funcs(templateFuncs()).Parse(tmpl)
	return err
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
