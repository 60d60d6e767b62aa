package render

import (
	"os"

	"github.com/jmylchreest/wallmemo/internal/apperr"
	"github.com/jmylchreest/wallmemo/internal/scene"
)

// SVGBackend writes the scene as SVG markup.
type SVGBackend struct{}

// Name implements Backend.
func (SVGBackend) Name() string { return BackendSVG }

// Write implements Backend.
func (SVGBackend) Write(s scene.Scene, path string) error {
	data, err := s.MarshalSVG()
	if err != nil {
		return apperr.Render("encoding svg", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperr.IO("writing image", err)
	}
	return nil
}
