package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallmemo/internal/app"
	"github.com/jmylchreest/wallmemo/internal/store"
	"github.com/jmylchreest/wallmemo/internal/tui"
)

var editOpts struct {
	noWallpaper bool
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit notes interactively",
	Long: `Launch the interactive terminal editor for the stored notes.

Saving (w) re-renders the wallpaper and writes the contents file.

Key bindings:
  j/k, ↑/↓    Navigate
  a           Append a note
  i           Insert before the selected note
  enter/e     Replace the selected note
  d           Delete the selected note
  K/J         Move the selected note up/down
  w           Save and render
  c           Copy note to clipboard
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().BoolVar(&editOpts.noWallpaper, "no-wallpaper", false,
		"Render the image on save but do not set it as wallpaper")
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := contentsPath()
	s, err := store.Load(path)
	if err != nil {
		return err
	}

	rowNumbers := !globalOpts.noLine
	pub, err := app.NewPublisher(cfg, app.PublisherOptions{
		RowNumbers:   rowNumbers,
		SetWallpaper: !editOpts.noWallpaper,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	save := func(notes []string) error {
		if err := pub.Publish(ctx, notes); err != nil {
			return err
		}
		return store.New(notes...).Save(path)
	}

	final, err := tui.Run(tui.RunOptions{
		Config:     cfg,
		Store:      s,
		Save:       save,
		RowNumbers: rowNumbers,
	})
	if err != nil {
		return err
	}
	reportUnsaved(final)
	return nil
}

// reportUnsaved warns when the editor was left with edits that were not saved.
func reportUnsaved(m tui.Model) bool {
	if !m.Dirty() {
		return false
	}
	logger.Warn("discarded unsaved changes", "notes", len(m.Notes()), "file", contentsPath())
	return true
}
