package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats notes as a YAML sequence.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes notes as YAML.
func (f *YAMLFormatter) Format(w io.Writer, notes []Note) error {
	if notes == nil {
		notes = []Note{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(notes); err != nil {
		return err
	}
	return enc.Close()
}
