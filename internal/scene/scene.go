// Package scene lays notes out on a wallpaper canvas.
//
// A Scene is a plain value: the background fill and one text run per note.
// It carries no rendering state and can be encoded as SVG or handed to a
// rasterizer.
package scene

import (
	"fmt"

	"github.com/jmylchreest/wallmemo/internal/config"
)

// Layout constants.
const (
	TextX      = 150.0
	FirstLineY = 100.0
	LineHeight = 40.0
	FontSize   = 30.0
	FontFamily = "Sans"
)

// Scene is the full description of one wallpaper image.
type Scene struct {
	Width      int
	Height     int
	Background string
	Runs       []TextRun
}

// TextRun is a single line of text. Y is the baseline.
type TextRun struct {
	Text     string
	X        float64
	Y        float64
	FontSize float64
	Family   string
	Fill     string
}

// Options tweak how notes are turned into text.
type Options struct {
	// RowNumbers prefixes each note with its zero-based index, "0) ".
	RowNumbers bool
}

// DefaultOptions numbers every row.
func DefaultOptions() Options {
	return Options{RowNumbers: true}
}

// Build places notes on a canvas described by img.
func Build(notes []string, img config.ImageConfig, opts Options) Scene {
	s := Scene{
		Width:      img.Width,
		Height:     img.Height,
		Background: img.BgColor,
		Runs:       make([]TextRun, 0, len(notes)),
	}

	for i, note := range notes {
		s.Runs = append(s.Runs, TextRun{
			Text:     Label(i, note, opts),
			X:        TextX,
			Y:        FirstLineY + LineHeight*float64(i),
			FontSize: FontSize,
			Family:   FontFamily,
			Fill:     img.FgColor,
		})
	}
	return s
}

// Label is the text shown for the note at index i.
func Label(i int, note string, opts Options) string {
	if !opts.RowNumbers {
		return note
	}
	return fmt.Sprintf("%d) %s", i, note)
}
