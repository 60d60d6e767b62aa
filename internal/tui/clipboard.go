package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jmylchreest/wallmemo/internal/config"
)

// clipboardTimeout bounds a single copy.
const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard tool found (install wl-clipboard, xclip or xsel, or set [Clipboard] command)")

// clipboardTool is a command line that reads the clipboard contents on stdin.
type clipboardTool struct {
	argv    []string
	wayland bool
}

var clipboardTools = []clipboardTool{
	{argv: []string{"wl-copy"}, wayland: true},
	{argv: []string{"xclip", "-selection", "clipboard"}},
	{argv: []string{"xsel", "--clipboard", "--input"}},
}

// clipboard pipes notes into an external clipboard tool.
type clipboard struct {
	command  string
	getenv   func(string) string
	lookPath func(string) (string, error)
}

func newClipboard(cfg config.ClipboardConfig) *clipboard {
	return &clipboard{
		command:  cfg.Command,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// argv resolves the tool to run. A configured command always wins; otherwise
// tools matching the current session type are preferred.
func (c *clipboard) argv() ([]string, error) {
	if c.command != "" {
		argv := strings.Fields(c.command)
		if len(argv) == 0 {
			return nil, errNoClipboard
		}
		return argv, nil
	}

	onWayland := c.getenv("WAYLAND_DISPLAY") != ""
	for _, pass := range []bool{true, false} {
		for _, tool := range clipboardTools {
			if pass && tool.wayland != onWayland {
				continue
			}
			if !pass && tool.wayland == onWayland {
				continue
			}
			if _, err := c.lookPath(tool.argv[0]); err == nil {
				return tool.argv, nil
			}
		}
	}
	return nil, errNoClipboard
}

// Copy writes text to the clipboard.
func (c *clipboard) Copy(text string) error {
	argv, err := c.argv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
