package input

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/jmylchreest/wallmemo/internal/store"
)

// StdinAdapter reads notes from standard input.
type StdinAdapter struct {
	reader io.Reader
}

// NewStdinAdapter creates a new StdinAdapter reading from os.Stdin.
func NewStdinAdapter() *StdinAdapter {
	return &StdinAdapter{reader: os.Stdin}
}

// NewStdinAdapterWithReader creates a new StdinAdapter with a custom reader.
func NewStdinAdapterWithReader(r io.Reader) *StdinAdapter {
	return &StdinAdapter{reader: r}
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return "stdin"
}

// Import reads notes from standard input.
// Supports two formats:
//  1. JSON array of strings, or of objects with a "text" field
//     (the output of "wallmemo list --format json")
//  2. Plain text, one note per line; blank lines are skipped
func (a *StdinAdapter) Import(ctx context.Context) ([]string, error) {
	data, err := io.ReadAll(a.reader)
	if err != nil {
		return nil, &AdapterError{
			Source:  "stdin",
			Message: "failed to read stdin",
			Err:     err,
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		if notes, err := parseJSONArray(trimmed); err == nil {
			return notes, nil
		}
	}

	lines, err := store.ReadNotes(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	notes := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			notes = append(notes, line)
		}
	}
	return notes, nil
}

// stdinEntry is one element of a JSON object array.
type stdinEntry struct {
	Text string `json:"text"`
}

// parseJSONArray parses a JSON array of strings or note objects.
func parseJSONArray(data []byte) ([]string, error) {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain, nil
	}

	var entries []stdinEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &AdapterError{
			Source:  "stdin",
			Message: "failed to parse JSON",
			Err:     err,
		}
	}

	notes := make([]string, len(entries))
	for i, e := range entries {
		notes[i] = e.Text
	}
	return notes, nil
}
