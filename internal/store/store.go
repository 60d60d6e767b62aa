// Package store provides the ordered note store behind the wallpaper.
package store

import "slices"

// Store is an ordered, index-addressed list of single-line notes.
// Insertion order is display order. It is not safe for concurrent use;
// a wallmemo invocation touches it from one goroutine only.
type Store struct {
	notes []string
}

// New creates a Store holding notes in the given order.
func New(notes ...string) *Store {
	return &Store{notes: slices.Clone(notes)}
}

// Len returns the number of notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// Notes returns a copy of the notes in display order.
func (s *Store) Notes() []string {
	return slices.Clone(s.notes)
}

// At returns the note at index, if any.
func (s *Store) At(index int) (string, bool) {
	if index < 0 || index >= len(s.notes) {
		return "", false
	}
	return s.notes[index], true
}

// DeleteAt removes the note at index. Out-of-range indices are ignored:
// they usually come straight from the command line.
// Reports whether a note was removed.
func (s *Store) DeleteAt(index int) bool {
	if index < 0 || index >= len(s.notes) {
		return false
	}
	s.notes = slices.Delete(s.notes, index, index+1)
	return true
}

// InsertAt inserts note before the element currently at index, shifting
// the rest down. A negative index (-1 by convention) or one at or past the
// end appends.
func (s *Store) InsertAt(index int, note string) {
	if index < 0 || index >= len(s.notes) {
		s.notes = append(s.notes, note)
		return
	}
	s.notes = slices.Insert(s.notes, index, note)
}

// Append adds note at the end.
func (s *Store) Append(note string) {
	s.notes = append(s.notes, note)
}

// Clear discards every note.
func (s *Store) Clear() {
	s.notes = nil
}
