package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallmemo/internal/adapter/output"
	"github.com/jmylchreest/wallmemo/internal/store"
)

var listOpts struct {
	format    string
	field     string
	template  string
	maxLen    int
	separator string
}

var listCmd = &cobra.Command{
	Use:   "list [index]",
	Short: "Print the stored notes",
	Long: `Print the stored notes, numbered the same way they appear on the wallpaper.

With an index argument only that note is printed (see --field).

Examples:
  # Plain list
  wallmemo list

  # JSON for scripting
  wallmemo list --format json

  # Pick a note to delete with a launcher
  wallmemo -d "$(wallmemo list --format dmenu | fuzzel --dmenu)"

  # Custom template
  wallmemo list --template '{{.Index}}: {{truncate .Text 20}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOpts.format, "format", "plain",
		"Output format: plain, json, yaml, dmenu")
	listCmd.Flags().StringVar(&listOpts.field, "field", "text",
		"Field to print for a single note: text, label, index")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template for plain/dmenu output")
	listCmd.Flags().IntVar(&listOpts.maxLen, "max-len", 0,
		"Truncate notes to this many characters (0 = unlimited)")
	listCmd.Flags().StringVar(&listOpts.separator, "separator", " | ",
		"Field separator for dmenu output")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := output.CheckTemplate(listOpts.template); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	s, err := store.Load(contentsPath())
	if err != nil {
		return err
	}
	notes := output.Notes(s.Notes(), !globalOpts.noLine)

	if len(args) == 1 {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		if idx < 0 || idx >= len(notes) {
			return fmt.Errorf("no note at index %d (have %d)", idx, len(notes))
		}
		_, err = fmt.Fprintln(os.Stdout, output.FormatField(notes[idx], listOpts.field))
		return err
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.MaxLen = listOpts.maxLen
	opts.Separator = listOpts.separator

	formatter := output.NewFormatter(output.FormatType(listOpts.format), opts)
	return formatter.Format(os.Stdout, notes)
}
