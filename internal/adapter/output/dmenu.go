package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// DmenuFormatter formats notes for dmenu/rofi/fuzzel. Each line starts with
// the note index so a selection can be fed back to --delete or --replace.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes notes in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, notes []Note) error {
	for _, n := range notes {
		if _, err := fmt.Fprintln(w, f.formatLine(n)); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(n Note) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, n); err == nil {
			return buf.String()
		}
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}
	return fmt.Sprintf("%d%s%s", n.Index, sep, truncate(sanitize(n.Text), f.opts.MaxLen))
}

// ParseSelection extracts the note index from a dmenu line.
func ParseSelection(line, sep string) (int, error) {
	if sep == "" {
		sep = " | "
	}
	if trimmed := strings.TrimSpace(sep); trimmed != "" {
		sep = trimmed
	}
	head, _, _ := strings.Cut(strings.TrimSpace(line), sep)
	var idx int
	if _, err := fmt.Sscanf(strings.TrimSpace(head), "%d", &idx); err != nil {
		return 0, fmt.Errorf("no note index in %q", line)
	}
	return idx, nil
}

// sanitize collapses runs of whitespace for single-line display.
func sanitize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
