// Package planner turns one wallmemo invocation into an ordered list of
// store commands.
//
// The order is fixed: flush, then delete or replace, then insertions.
// Insertion positions are therefore relative to the store as it is after
// any deletion. Indices are never validated here; the store ignores
// out-of-range deletes and appends out-of-range inserts.
package planner

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/wallmemo/internal/store"
)

// Unset marks an index flag that was not supplied.
const Unset = -1

// Op identifies a store command.
type Op int

const (
	// OpFlush discards every note loaded from disk.
	OpFlush Op = iota
	// OpDelete removes the note at Index.
	OpDelete
	// OpReplace deletes the note at Index and inserts Text in the same slot.
	OpReplace
	// OpInsert inserts Text before the note at Index.
	OpInsert
	// OpAppend adds Text at the end.
	OpAppend
)

// String returns the command name.
func (o Op) String() string {
	switch o {
	case OpFlush:
		return "flush"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	case OpInsert:
		return "insert"
	case OpAppend:
		return "append"
	default:
		return "unknown"
	}
}

// Command is a single store mutation.
type Command struct {
	Op    Op
	Index int
	Text  string
}

func (c Command) String() string {
	switch c.Op {
	case OpFlush:
		return "flush"
	case OpDelete:
		return fmt.Sprintf("delete(%d)", c.Index)
	case OpAppend:
		return fmt.Sprintf("append(%q)", c.Text)
	default:
		return fmt.Sprintf("%s(%d, %q)", c.Op, c.Index, c.Text)
	}
}

// Invocation holds the mutation flags and new notes of one run.
// Index fields use Unset when the flag was not given.
type Invocation struct {
	Delete   int
	Replace  int
	Position int
	Flush    bool
	Contents []string
}

// NewInvocation returns an Invocation with every index Unset.
func NewInvocation(contents ...string) Invocation {
	return Invocation{
		Delete:   Unset,
		Replace:  Unset,
		Position: Unset,
		Contents: contents,
	}
}

// Conflicts describes flag combinations that Plan resolves by precedence.
// The result is empty when the invocation is unambiguous.
func (inv Invocation) Conflicts() []string {
	var out []string
	if inv.Delete != Unset && inv.Replace != Unset {
		out = append(out, "delete and replace both given: replace is ignored")
	}
	if inv.Replace != Unset && inv.Position != Unset {
		out = append(out, "replace and position both given: position is ignored")
	}
	return out
}

// Plan computes the command sequence for inv.
func Plan(inv Invocation) []Command {
	var cmds []Command

	if inv.Flush {
		cmds = append(cmds, Command{Op: OpFlush})
	}

	contents := make([]string, len(inv.Contents))
	for i, c := range inv.Contents {
		contents[i] = SingleLine(c)
	}

	position := Unset
	switch {
	case inv.Delete != Unset:
		cmds = append(cmds, Command{Op: OpDelete, Index: inv.Delete})
		position = inv.Position
	case inv.Replace != Unset:
		if len(contents) == 0 {
			return append(cmds, Command{Op: OpDelete, Index: inv.Replace})
		}
		cmds = append(cmds, Command{Op: OpReplace, Index: inv.Replace, Text: contents[0]})
		contents = contents[1:]
		position = inv.Replace + 1
	default:
		position = inv.Position
	}
	// A negative position appends; counting up from it would eventually
	// wrap to the front of the list.
	if position < 0 {
		position = Unset
	}

	for _, text := range contents {
		if position == Unset {
			cmds = append(cmds, Command{Op: OpAppend, Text: text})
			continue
		}
		cmds = append(cmds, Command{Op: OpInsert, Index: position, Text: text})
		position++
	}

	return cmds
}

// Apply runs cmds against s in order.
func Apply(s *store.Store, cmds []Command) {
	for _, c := range cmds {
		switch c.Op {
		case OpFlush:
			s.Clear()
		case OpDelete:
			s.DeleteAt(c.Index)
		case OpReplace:
			s.DeleteAt(c.Index)
			s.InsertAt(c.Index, c.Text)
		case OpInsert:
			s.InsertAt(c.Index, c.Text)
		case OpAppend:
			s.Append(c.Text)
		}
	}
}

// SingleLine folds line breaks into spaces so a note stays one line on disk.
func SingleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
