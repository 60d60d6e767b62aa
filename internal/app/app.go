// Package app wires the wallmemo pipeline: load the configuration and
// notes, apply the requested mutations, render the wallpaper, register it
// with the desktop and persist the notes.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/planner"
	"github.com/jmylchreest/wallmemo/internal/render"
	"github.com/jmylchreest/wallmemo/internal/scene"
	"github.com/jmylchreest/wallmemo/internal/store"
	"github.com/jmylchreest/wallmemo/internal/wallpaper"
)

// WallpaperTimeout bounds how long registration may take.
const WallpaperTimeout = 10 * time.Second

// Options configures one invocation.
type Options struct {
	ConfigPath   string
	ContentsPath string
	// Init rewrites the configuration file with defaults before loading.
	Init       bool
	Invocation planner.Invocation
	RowNumbers bool
	// SetWallpaper registers the rendered image with the desktop.
	SetWallpaper bool

	// Setter overrides the configured wallpaper method.
	Setter wallpaper.Setter
	Logger *slog.Logger
}

// Result describes a completed invocation.
type Result struct {
	Config *config.Config
	Notes  []string
	Output string
}

// Run executes the full pipeline. Nothing is persisted unless the image
// was rendered; a wallpaper registration failure is only logged.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := LoadConfig(opts.ConfigPath, opts.Init)
	if err != nil {
		return nil, err
	}

	contentsPath := opts.ContentsPath
	if contentsPath == "" {
		contentsPath = config.ContentsPath()
	}
	s, err := store.Load(contentsPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded notes", "path", contentsPath, "count", s.Len())

	for _, msg := range opts.Invocation.Conflicts() {
		logger.Warn(msg)
	}
	cmds := planner.Plan(opts.Invocation)
	for _, c := range cmds {
		logger.Debug("applying", "command", c.String())
	}
	planner.Apply(s, cmds)

	pub, err := NewPublisher(cfg, PublisherOptions{
		RowNumbers:   opts.RowNumbers,
		SetWallpaper: opts.SetWallpaper,
		Setter:       opts.Setter,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	if err := pub.Publish(ctx, s.Notes()); err != nil {
		return nil, err
	}

	if err := s.Save(contentsPath); err != nil {
		return nil, err
	}
	logger.Debug("saved notes", "path", contentsPath, "count", s.Len())

	return &Result{Config: cfg, Notes: s.Notes(), Output: cfg.Image.Output}, nil
}

// LoadConfig loads path, rewriting it with defaults first when init is set.
func LoadConfig(path string, init bool) (*config.Config, error) {
	if init {
		return config.InitConfig(path)
	}
	return config.LoadConfig(path)
}

// PublisherOptions configures a Publisher.
type PublisherOptions struct {
	RowNumbers   bool
	SetWallpaper bool
	Setter       wallpaper.Setter
	Logger       *slog.Logger
}

// Publisher renders notes to the configured output and registers the image
// as the wallpaper.
type Publisher struct {
	img        config.ImageConfig
	rowNumbers bool
	rasterizer *render.Rasterizer
	setter     wallpaper.Setter
	logger     *slog.Logger
}

// NewPublisher creates a Publisher for cfg. The wallpaper setter is only
// built when opts.SetWallpaper is true.
func NewPublisher(cfg *config.Config, opts PublisherOptions) (*Publisher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r, err := render.New(cfg.Image, logger)
	if err != nil {
		return nil, err
	}

	p := &Publisher{
		img:        cfg.Image,
		rowNumbers: opts.RowNumbers,
		rasterizer: r,
		logger:     logger,
	}
	if opts.SetWallpaper {
		p.setter = opts.Setter
		if p.setter == nil {
			setter, err := wallpaper.New(cfg.Wallpaper, logger)
			if err != nil {
				return nil, err
			}
			p.setter = setter
		}
	}
	return p, nil
}

// Publish renders notes and sets the wallpaper.
func (p *Publisher) Publish(ctx context.Context, notes []string) error {
	sc := scene.Build(notes, p.img, scene.Options{RowNumbers: p.rowNumbers})
	if err := p.rasterizer.Render(sc, p.img.Output); err != nil {
		return err
	}

	if p.setter == nil {
		return nil
	}
	wctx, cancel := context.WithTimeout(ctx, WallpaperTimeout)
	defer cancel()
	if err := p.setter.Set(wctx, p.img.Output); err != nil {
		p.logger.Warn("failed to set wallpaper", "method", p.setter.Name(), "path", p.img.Output, "error", err)
	}
	return nil
}
