package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/wallmemo/internal/apperr"
	"github.com/jmylchreest/wallmemo/internal/atomicfile"
)

// maxLineSize bounds a single note on disk.
const maxLineSize = 1024 * 1024 // 1MB

// Load reads the contents file at path, one note per line.
// A missing file yields an empty Store.
func Load(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, apperr.IO("reading contents", err)
	}
	defer file.Close()

	notes, err := ReadNotes(file)
	if err != nil {
		return nil, apperr.IO("reading contents", fmt.Errorf("%s: %w", path, err))
	}
	return &Store{notes: notes}, nil
}

// Save atomically replaces the contents file at path with one line per
// note. On failure the previous file is left untouched.
func (s *Store) Save(path string) error {
	var buf bytes.Buffer
	if err := WriteNotes(&buf, s.notes); err != nil {
		return apperr.IO("saving contents", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return apperr.IO("saving contents", err)
	}
	return nil
}

// ReadNotes splits r into lines with terminators (LF or CRLF) stripped.
// Empty lines are kept as empty notes.
func ReadNotes(r io.Reader) ([]string, error) {
	var notes []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		notes = append(notes, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading notes: %w", err)
	}
	return notes, nil
}

// WriteNotes writes each note followed by a newline.
func WriteNotes(w io.Writer, notes []string) error {
	bw := bufio.NewWriter(w)
	for _, n := range notes {
		if _, err := bw.WriteString(n); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
