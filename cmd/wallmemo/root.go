package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallmemo/internal/adapter/input"
	"github.com/jmylchreest/wallmemo/internal/adapter/output"
	"github.com/jmylchreest/wallmemo/internal/app"
	"github.com/jmylchreest/wallmemo/internal/apperr"
	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/planner"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	globalOpts struct {
		verbose      bool
		configPath   string
		contentsPath string
		noLine       bool
	}
	rootOpts struct {
		init        bool
		delete      string
		replace     string
		position    int
		empty       bool
		noWallpaper bool
		stdin       bool
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wallmemo [flags] [note...]",
	Short: "Keep your notes on the desktop wallpaper",
	Long: `wallmemo keeps a short list of notes and draws them onto an image that is
set as the desktop wallpaper.

Every positional argument is a new note. Without flags the notes are appended;
use --position to insert them, --replace to overwrite an existing note and
--delete to remove one. Notes are numbered from 0.

Examples:
  # Add two notes
  wallmemo "buy milk" "call mom"

  # Replace note 1
  wallmemo -r 1 "call mom tonight"

  # Remove note 0 and start over with a single note
  wallmemo -e "only this"

  # Re-render the wallpaper without changing anything
  wallmemo

A note that matches a subcommand name must follow "--".`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		return nil
	},
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wallmemo: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the failing stage to the process exit status.
func exitCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ErrConfig:
		return 2
	case apperr.ErrIO:
		return 3
	case apperr.ErrRender:
		return 4
	default:
		return 1
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.configPath, "conf", "c", "",
		"Path to config file (default: ~/.config/wallmemo/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.contentsPath, "file", "f", "",
		"Path to contents file (default: ~/.config/wallmemo/contents)")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.noLine, "noline", "n", false,
		"Do not prefix notes with their row number")

	// Mutation flags
	rootCmd.Flags().BoolVar(&rootOpts.init, "init", false,
		"Rewrite the configuration file with defaults")
	rootCmd.Flags().StringVarP(&rootOpts.delete, "delete", "d", "",
		"Delete the note at this index (or a 'list --format dmenu' line)")
	rootCmd.Flags().StringVarP(&rootOpts.replace, "replace", "r", "",
		"Replace the note at this index (or a 'list --format dmenu' line) with the first new note")
	rootCmd.Flags().IntVarP(&rootOpts.position, "position", "p", planner.Unset,
		"Insert new notes starting at this index")
	rootCmd.Flags().BoolVarP(&rootOpts.empty, "empty", "e", false,
		"Discard all existing notes first")
	rootCmd.Flags().BoolVar(&rootOpts.noWallpaper, "no-wallpaper", false,
		"Render the image but do not set it as wallpaper")
	rootCmd.Flags().BoolVar(&rootOpts.stdin, "stdin", false,
		"Also read new notes from stdin (one per line, or JSON from 'list --format json')")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if rootOpts.stdin {
		adapter, err := input.NewAdapter("stdin")
		if err != nil {
			return err
		}
		notes, err := adapter.Import(ctx)
		if err != nil {
			return apperr.IO("reading stdin", err)
		}
		args = append(args, notes...)
	}

	del, err := indexFlag("delete", rootOpts.delete)
	if err != nil {
		return err
	}
	repl, err := indexFlag("replace", rootOpts.replace)
	if err != nil {
		return err
	}

	inv := planner.NewInvocation(args...)
	inv.Delete = del
	inv.Replace = repl
	inv.Position = rootOpts.position
	inv.Flush = rootOpts.empty

	res, err := app.Run(ctx, app.Options{
		ConfigPath:   globalOpts.configPath,
		ContentsPath: globalOpts.contentsPath,
		Init:         rootOpts.init,
		Invocation:   inv,
		RowNumbers:   !globalOpts.noLine,
		SetWallpaper: !rootOpts.noWallpaper,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	logger.Info("wallpaper updated", "output", res.Output, "notes", len(res.Notes))
	return nil
}

// indexFlag parses an index flag value. Both a bare index and a line
// printed by 'list --format dmenu' are accepted.
func indexFlag(name, value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return planner.Unset, nil
	}
	idx, err := output.ParseSelection(value, "")
	if err != nil {
		return planner.Unset, fmt.Errorf("--%s: %w", name, err)
	}
	return idx, nil
}

// contentsPath returns the contents file selected by --file.
func contentsPath() string {
	if globalOpts.contentsPath != "" {
		return globalOpts.contentsPath
	}
	return config.ContentsPath()
}

// loadConfig loads the configuration selected by --conf.
func loadConfig() (*config.Config, error) {
	return app.LoadConfig(globalOpts.configPath, false)
}

// commandContext returns cmd's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
