package wallpaper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/jmylchreest/wallmemo/internal/config"
)

const gsettingsSchema = "org.gnome.desktop.background"

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

// GSettingsSetter writes the picture-uri keys of the GNOME background schema.
type GSettingsSetter struct {
	Run    Runner
	logger *slog.Logger
}

// NewGSettingsSetter creates a GSettingsSetter that runs the gsettings binary.
func NewGSettingsSetter(logger *slog.Logger) *GSettingsSetter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GSettingsSetter{Run: execRunner, logger: logger}
}

// Name implements Setter.
func (g *GSettingsSetter) Name() string { return config.MethodGSettings }

// Set implements Setter. picture-uri-dark is best effort since older GNOME
// releases lack the key.
func (g *GSettingsSetter) Set(ctx context.Context, path string) error {
	uri, err := FileURI(path)
	if err != nil {
		return err
	}

	if err := g.Run(ctx, "gsettings", "set", gsettingsSchema, "picture-uri", uri); err != nil {
		return err
	}
	if err := g.Run(ctx, "gsettings", "set", gsettingsSchema, "picture-uri-dark", uri); err != nil {
		g.logger.Debug("failed to set picture-uri-dark", "error", err)
	}
	return nil
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
