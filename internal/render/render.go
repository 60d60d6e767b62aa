// Package render turns a scene into an image file.
//
// Output is always written to a temporary sibling of the destination and
// renamed into place, so the previous wallpaper survives a failed render.
package render

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/wallmemo/internal/apperr"
	"github.com/jmylchreest/wallmemo/internal/atomicfile"
	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/scene"
)

// Backend names.
const (
	BackendPNG = "png"
	BackendSVG = "svg"
)

// Backend encodes a scene into the file at path. The file does not exist
// yet when Write is called.
type Backend interface {
	Name() string
	Write(s scene.Scene, path string) error
}

// Rasterizer validates scenes and writes them through a Backend.
type Rasterizer struct {
	backend Backend
	logger  *slog.Logger
}

// New returns a Rasterizer for img. The backend is img.Backend when set,
// otherwise it follows the extension of img.Output (.svg or PNG).
func New(img config.ImageConfig, logger *slog.Logger) (*Rasterizer, error) {
	backend, err := BackendFor(img)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, logger), nil
}

// NewWithBackend returns a Rasterizer using backend directly.
func NewWithBackend(backend Backend, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{backend: backend, logger: logger}
}

// BackendFor picks the backend configured by img.
func BackendFor(img config.ImageConfig) (Backend, error) {
	name := img.Backend
	if name == "" {
		name = BackendPNG
		if strings.EqualFold(filepath.Ext(img.Output), ".svg") {
			name = BackendSVG
		}
	}

	switch name {
	case BackendPNG:
		return &PNGBackend{FontPath: img.Font}, nil
	case BackendSVG:
		return SVGBackend{}, nil
	default:
		return nil, apperr.Config("selecting backend", fmt.Errorf("unknown backend %q", name))
	}
}

// Backend returns the backend in use.
func (r *Rasterizer) Backend() Backend {
	return r.backend
}

// Render writes s to outputPath.
func (r *Rasterizer) Render(s scene.Scene, outputPath string) error {
	if err := Validate(s); err != nil {
		return err
	}

	err := atomicfile.Replace(outputPath, func(tmp string) error {
		return r.backend.Write(s, tmp)
	})
	if err != nil {
		return apperr.IO("writing image", err)
	}

	r.logger.Debug("rendered wallpaper",
		"backend", r.backend.Name(),
		"path", outputPath,
		"lines", len(s.Runs),
		"width", s.Width,
		"height", s.Height)
	return nil
}

// Validate checks that s can be drawn: positive dimensions and colors that
// parse as hexadecimal.
func Validate(s scene.Scene) error {
	if s.Width <= 0 || s.Height <= 0 {
		return apperr.Render("rendering", fmt.Errorf("invalid canvas size %dx%d", s.Width, s.Height))
	}
	if _, err := parseColor(s.Background); err != nil {
		return apperr.Render("rendering", err)
	}
	for _, run := range s.Runs {
		if _, err := parseColor(run.Fill); err != nil {
			return apperr.Render("rendering", err)
		}
	}
	return nil
}

func parseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("unsupported color %q", hex)
	}
	return c, nil
}
