package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wallmemo/internal/apperr"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	cfg := DefaultConfig()

	assert.Equal(t, "#000000", cfg.Image.BgColor)
	assert.Equal(t, "#FFFFFF", cfg.Image.FgColor)
	assert.Equal(t, 1366, cfg.Image.Width)
	assert.Equal(t, 768, cfg.Image.Height)
	assert.Equal(t, "/custom/config/wallmemo/wallpaper.png", cfg.Image.Output)
	assert.Empty(t, cfg.Image.Font)
	assert.Equal(t, MethodAuto, cfg.Wallpaper.Method)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_WritesDefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "wallmemo", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// Default file is created and loads back identically
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[Image]")
	assert.Contains(t, string(content), "bgcolor = ")
	assert.Contains(t, string(content), "#000000")
	assert.Contains(t, string(content), "hexadecimal")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "config.toml")

	content := `
[Image]
bgcolor = "#102030"
fgcolor = "#abc"
width = 1920
height = 1080
output = "/tmp/memo.png"
font = "/usr/share/fonts/TTF/DejaVuSans.ttf"

[Wallpaper]
method = "gsettings"
set_on = "background"

[Clipboard]
command = "wl-copy"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "#102030", cfg.Image.BgColor)
	assert.Equal(t, "#abc", cfg.Image.FgColor)
	assert.Equal(t, 1920, cfg.Image.Width)
	assert.Equal(t, 1080, cfg.Image.Height)
	assert.Equal(t, "/tmp/memo.png", cfg.Image.Output)
	assert.Equal(t, "/usr/share/fonts/TTF/DejaVuSans.ttf", cfg.Image.Font)
	assert.Equal(t, MethodGSettings, cfg.Wallpaper.Method)
	assert.Equal(t, "background", cfg.Wallpaper.SetOn)
	assert.Equal(t, "wl-copy", cfg.Clipboard.Command)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "config.toml")

	content := `
[Image]
width = 800
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Image.Width)
	assert.Equal(t, DefaultHeight, cfg.Image.Height)
	assert.Equal(t, DefaultBgColor, cfg.Image.BgColor)
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[Image]\noutput = \"~/wall.png\"\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "wall.png"), cfg.Image.Output)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `this is not valid toml [`},
		{"bad color", "[Image]\nbgcolor = \"black\"\n"},
		{"zero width", "[Image]\nwidth = 0\n"},
		{"negative height", "[Image]\nheight = -5\n"},
		{"relative output", "[Image]\noutput = \"wall.png\"\n"},
		{"unknown backend", "[Image]\nbackend = \"bmp\"\n"},
		{"unknown method", "[Wallpaper]\nmethod = \"feh\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", dir)
			path := filepath.Join(dir, "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrConfig)

			// The broken file is not overwritten
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(content))
		})
	}
}

func TestInitConfig_Overwrites(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Image]\nwidth = 10\n"), 0644))

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, cfg.Image.Width)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, loaded.Image.Width)
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Image.BgColor = "#112233"
	cfg.Clipboard.Command = "xclip -selection clipboard"

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "#112233", loaded.Image.BgColor)
	assert.Equal(t, "xclip -selection clipboard", loaded.Clipboard.Command)
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	assert.Equal(t, "/custom/config/wallmemo", ConfigDir())
	assert.Equal(t, "/custom/config/wallmemo/config.toml", ConfigPath())
	assert.Equal(t, "/custom/config/wallmemo/contents", ContentsPath())
	assert.Equal(t, "/custom/config/wallmemo/wallpaper.png", DefaultOutputPath())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, ConfigPath(), filepath.Join(".config", "wallmemo", "config.toml"))
}

func TestLoadConfig_BlankWallpaperDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "config.toml")

	content := `
[Wallpaper]
method = ""
set_on = ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, MethodAuto, cfg.Wallpaper.Method)
	assert.Equal(t, "both", cfg.Wallpaper.SetOn)
}

func TestWallpaperConfig_ValidateDoesNotModify(t *testing.T) {
	wc := WallpaperConfig{}
	require.NoError(t, wc.Validate())
	assert.Empty(t, wc.Method)
	assert.Empty(t, wc.SetOn)

	wc.Method = "xwallpaper"
	assert.Error(t, wc.Validate())
	assert.Equal(t, "xwallpaper", wc.Method)
}
