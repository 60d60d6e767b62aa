package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// PlainFormatter writes one label per line, as drawn on the wallpaper.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes notes as plain text.
func (f *PlainFormatter) Format(w io.Writer, notes []Note) error {
	for _, n := range notes {
		if f.template != nil {
			if err := f.template.Execute(w, n); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, truncate(n.Label, f.opts.MaxLen)); err != nil {
			return err
		}
	}
	return nil
}

// FormatField outputs a specific field from a note.
func FormatField(n Note, field string) string {
	switch strings.ToLower(field) {
	case "index", "id":
		return fmt.Sprintf("%d", n.Index)
	case "label":
		return n.Label
	default:
		return n.Text
	}
}
