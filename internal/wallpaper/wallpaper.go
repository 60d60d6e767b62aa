// Package wallpaper registers a rendered image as the desktop background.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/jmylchreest/wallmemo/internal/config"
)

// Setter registers the image at path as the wallpaper.
type Setter interface {
	Name() string
	Set(ctx context.Context, path string) error
}

// New returns the Setter selected by cfg.Method.
func New(cfg config.WallpaperConfig, logger *slog.Logger) (Setter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Method {
	case config.MethodAuto, "":
		return &Auto{
			Setters: []Setter{
				NewPortalSetter(cfg.SetOn, logger),
				NewGSettingsSetter(logger),
			},
			logger: logger,
		}, nil
	case config.MethodPortal:
		return NewPortalSetter(cfg.SetOn, logger), nil
	case config.MethodGSettings:
		return NewGSettingsSetter(logger), nil
	case config.MethodNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown wallpaper method %q", cfg.Method)
	}
}

// FileURI returns the file:// URI for path, made absolute first.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: abs}
	return u.String(), nil
}

// Auto tries each setter in order until one succeeds.
type Auto struct {
	Setters []Setter
	logger  *slog.Logger
}

// Name implements Setter.
func (a *Auto) Name() string { return config.MethodAuto }

// Set implements Setter.
func (a *Auto) Set(ctx context.Context, path string) error {
	logger := a.logger
	if logger == nil {
		logger = slog.Default()
	}

	var errs []error
	for _, s := range a.Setters {
		err := s.Set(ctx, path)
		if err == nil {
			logger.Debug("wallpaper set", "method", s.Name(), "path", path)
			return nil
		}
		logger.Debug("wallpaper method failed", "method", s.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return errors.New("no wallpaper method available")
	}
	return errors.Join(errs...)
}

// None leaves the desktop alone.
type None struct{}

// Name implements Setter.
func (None) Name() string { return config.MethodNone }

// Set implements Setter.
func (None) Set(context.Context, string) error { return nil }
