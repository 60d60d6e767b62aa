package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats notes as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes notes as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, notes []Note) error {
	if notes == nil {
		notes = []Note{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(notes)
}
