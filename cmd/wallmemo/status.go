package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/render"
	"github.com/jmylchreest/wallmemo/internal/scene"
	"github.com/jmylchreest/wallmemo/internal/store"
)

var statusOpts struct {
	json   bool
	waybar bool
}

// FileStatus describes one file managed by wallmemo.
type FileStatus struct {
	Path     string    `json:"path"`
	Exists   bool      `json:"exists"`
	Size     int64     `json:"size,omitempty"`
	Modified time.Time `json:"modified,omitempty"`
}

// Status is the machine-readable summary printed by status --json.
type Status struct {
	Notes     int        `json:"notes"`
	Backend   string     `json:"backend"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Method    string     `json:"wallpaper_method"`
	Config    FileStatus `json:"config"`
	Contents  FileStatus `json:"contents"`
	Wallpaper FileStatus `json:"wallpaper"`
	Stale     bool       `json:"stale"`
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show notes, files and wallpaper state",
	Long: `Show how many notes are stored, where the files live and when the
wallpaper was last rendered.

The wallpaper is reported as stale when the contents or configuration file
changed after it was rendered.

With --waybar the note count is printed in Waybar's custom module format:

  "custom/wallmemo": {
    "exec": "wallmemo status --waybar",
    "interval": 30,
    "return-type": "json",
    "on-click": "wallmemo edit"
  }`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output status as JSON")
	statusCmd.Flags().BoolVar(&statusOpts.waybar, "waybar", false,
		"Output Waybar-compatible JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := contentsPath()
	s, err := store.Load(path)
	if err != nil {
		return err
	}

	cfgPath := globalOpts.configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	backend, err := render.BackendFor(cfg.Image)
	if err != nil {
		return err
	}

	st := Status{
		Notes:     s.Len(),
		Backend:   backend.Name(),
		Width:     cfg.Image.Width,
		Height:    cfg.Image.Height,
		Method:    cfg.Wallpaper.Method,
		Config:    statFile(cfgPath),
		Contents:  statFile(path),
		Wallpaper: statFile(cfg.Image.Output),
	}
	st.Stale = isStale(st)

	switch {
	case statusOpts.waybar:
		return outputJSON(waybarStatus(s.Notes(), !globalOpts.noLine))
	case statusOpts.json:
		return outputJSON(st)
	default:
		printStatus(st)
		return nil
	}
}

func statFile(path string) FileStatus {
	fs := FileStatus{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return fs
	}
	fs.Exists = true
	fs.Size = info.Size()
	fs.Modified = info.ModTime()
	return fs
}

// isStale reports whether the wallpaper predates its inputs.
func isStale(st Status) bool {
	if !st.Wallpaper.Exists {
		return true
	}
	for _, in := range []FileStatus{st.Config, st.Contents} {
		if in.Exists && in.Modified.After(st.Wallpaper.Modified) {
			return true
		}
	}
	return false
}

func waybarStatus(notes []string, rowNumbers bool) WaybarStatus {
	if len(notes) == 0 {
		return WaybarStatus{Text: "", Alt: "empty", Class: "empty"}
	}
	lines := make([]string, len(notes))
	for i, n := range notes {
		lines[i] = scene.Label(i, n, scene.Options{RowNumbers: rowNumbers})
	}
	return WaybarStatus{
		Text:    fmt.Sprintf("%d", len(notes)),
		Alt:     "notes",
		Tooltip: strings.Join(lines, "\n"),
		Class:   "notes",
	}
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printStatus(st Status) {
	fmt.Printf("Notes:      %d\n", st.Notes)
	fmt.Printf("Image:      %dx%d %s\n", st.Width, st.Height, st.Backend)
	fmt.Printf("Wallpaper:  %s\n", st.Method)
	fmt.Println()
	printFile("Config", st.Config)
	printFile("Contents", st.Contents)
	printFile("Output", st.Wallpaper)
	if st.Stale {
		fmt.Println()
		fmt.Println("The wallpaper is out of date; run wallmemo to re-render it.")
	}
}

func printFile(label string, fs FileStatus) {
	if !fs.Exists {
		fmt.Printf("%-10s  %s (missing)\n", label+":", fs.Path)
		return
	}
	fmt.Printf("%-10s  %s (%s, %s)\n", label+":", fs.Path,
		humanize.Bytes(uint64(fs.Size)), humanize.Time(fs.Modified))
}
