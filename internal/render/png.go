package render

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jmylchreest/wallmemo/internal/apperr"
	"github.com/jmylchreest/wallmemo/internal/scene"
)

// PNGBackend rasterizes scenes with gg. Text uses the TrueType font at
// FontPath, or the built-in Go Regular face when FontPath is empty.
type PNGBackend struct {
	FontPath string
}

// Name implements Backend.
func (b *PNGBackend) Name() string { return BackendPNG }

// Write implements Backend.
func (b *PNGBackend) Write(s scene.Scene, path string) error {
	source, err := b.loadFont()
	if err != nil {
		return apperr.Render("loading font", err)
	}
	defer func() { _ = source.Close() }()

	bg, err := parseColor(s.Background)
	if err != nil {
		return apperr.Render("rendering", err)
	}

	dc := gg.NewContext(s.Width, s.Height)
	dc.SetRGB(bg.R, bg.G, bg.B)
	dc.DrawRectangle(0, 0, float64(s.Width), float64(s.Height))
	dc.Fill()

	faces := make(map[float64]text.Face)
	for _, run := range s.Runs {
		fg, err := parseColor(run.Fill)
		if err != nil {
			return apperr.Render("rendering", err)
		}
		face, ok := faces[run.FontSize]
		if !ok {
			face = source.Face(run.FontSize)
			faces[run.FontSize] = face
		}
		dc.SetFont(face)
		dc.SetRGB(fg.R, fg.G, fg.B)
		dc.DrawString(run.Text, run.X, run.Y)
	}

	if err := dc.SavePNG(path); err != nil {
		return apperr.IO("writing image", err)
	}
	return nil
}

func (b *PNGBackend) loadFont() (*text.FontSource, error) {
	if b.FontPath == "" {
		source, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("built-in font: %w", err)
		}
		return source, nil
	}
	source, err := text.NewFontSourceFromFile(b.FontPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.FontPath, err)
	}
	return source, nil
}
