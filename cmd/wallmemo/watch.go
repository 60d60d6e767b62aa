package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallmemo/internal/app"
	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/store"
)

var watchOpts struct {
	noWallpaper bool
	skipInitial bool
	debounce    time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the wallpaper when notes or config change",
	Long: `Watch the contents and configuration files and re-render the wallpaper
whenever either changes, for example after editing the notes by hand.

The notes are never modified. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOpts.noWallpaper, "no-wallpaper", false,
		"Render the image but do not set it as wallpaper")
	watchCmd.Flags().BoolVar(&watchOpts.skipInitial, "skip-initial", false,
		"Do not render once at startup")
	watchCmd.Flags().DurationVar(&watchOpts.debounce, "debounce", store.DefaultDebounce,
		"Wait this long after the last change before rendering")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := globalOpts.configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	path := contentsPath()

	// Fail early on a broken configuration.
	if _, err := loadConfig(); err != nil {
		return err
	}

	changes := make(chan struct{}, 1)
	fw, err := store.NewFileWatcher(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, logger, cfgPath, path)
	if err != nil {
		return err
	}
	fw.SetDebounce(watchOpts.debounce)
	if err := fw.Start(); err != nil {
		return err
	}
	defer fw.Stop()

	if !watchOpts.skipInitial {
		if err := rerender(ctx, path); err != nil {
			logger.Error("render failed", "error", err)
		}
	}
	logger.Info("watching for changes", "config", cfgPath, "contents", path)

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping watcher")
			return nil
		case <-changes:
			if err := rerender(ctx, path); err != nil {
				logger.Error("render failed", "error", err)
			}
		}
	}
}

// rerender reloads config and notes and publishes them unchanged.
func rerender(ctx context.Context, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := store.Load(path)
	if err != nil {
		return err
	}

	pub, err := app.NewPublisher(cfg, app.PublisherOptions{
		RowNumbers:   !globalOpts.noLine,
		SetWallpaper: !watchOpts.noWallpaper,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	if err := pub.Publish(ctx, s.Notes()); err != nil {
		return err
	}
	logger.Info("wallpaper re-rendered", "notes", s.Len(), "output", cfg.Image.Output)
	return nil
}
