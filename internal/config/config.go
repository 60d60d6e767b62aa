// Package config handles configuration file loading and parsing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/wallmemo/internal/apperr"
	"github.com/jmylchreest/wallmemo/internal/atomicfile"
)

// Default configuration values.
const (
	DefaultBgColor = "#000000"
	DefaultFgColor = "#FFFFFF"
	DefaultWidth   = 1366
	DefaultHeight  = 768

	appDirName       = "wallmemo"
	configFileName   = "config.toml"
	contentsFileName = "contents"
	outputFileName   = "wallpaper.png"
)

// Wallpaper registration methods.
const (
	MethodAuto      = "auto"
	MethodPortal    = "portal"
	MethodGSettings = "gsettings"
	MethodNone      = "none"
)

// Config represents the wallmemo configuration.
type Config struct {
	Image     ImageConfig     `toml:"Image"`
	Wallpaper WallpaperConfig `toml:"Wallpaper"`
	Clipboard ClipboardConfig `toml:"Clipboard"`
}

// ImageConfig describes the rendered wallpaper. It is the render
// configuration handed to the scene builder and the rasterizer.
type ImageConfig struct {
	BgColor string `toml:"bgcolor" comment:"Background color of the image, in hexadecimal format (e.g. #FF00FF)"`
	FgColor string `toml:"fgcolor" comment:"Color for text, in hexadecimal format (e.g. #FF00FF)"`
	Width   int    `toml:"width" comment:"Width of the image, in pixels"`
	Height  int    `toml:"height" comment:"Height of the image, in pixels"`
	Output  string `toml:"output" comment:"Absolute path of the graphic file to be used as wallpaper"`
	Font    string `toml:"font" comment:"TrueType font file for the text (empty = built-in Go Regular)"`
	Backend string `toml:"backend" comment:"Output encoder: png or svg (empty = from output extension)"`
}

// WallpaperConfig controls how the rendered image is registered.
type WallpaperConfig struct {
	Method string `toml:"method" comment:"auto, portal, gsettings or none"`
	SetOn  string `toml:"set_on" comment:"background, lockscreen or both (portal only)"`
}

// ClipboardConfig holds clipboard settings (edit TUI only).
type ClipboardConfig struct {
	Command string `toml:"command" comment:"Clipboard command (auto-detected if empty)"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Image: ImageConfig{
			BgColor: DefaultBgColor,
			FgColor: DefaultFgColor,
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Output:  DefaultOutputPath(),
		},
		Wallpaper: WallpaperConfig{
			Method: MethodAuto,
			SetOn:  "both",
		},
	}
}

// ConfigDir returns the wallmemo configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDirName)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// ContentsPath returns the path to the notes file.
func ContentsPath() string {
	return filepath.Join(ConfigDir(), contentsFileName)
}

// DefaultOutputPath returns where the wallpaper is written by default.
func DefaultOutputPath() string {
	return filepath.Join(ConfigDir(), outputFileName)
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// A missing or unreadable file is replaced by the default configuration,
// which is written to path and returned. Malformed content is an error
// and the file is left alone.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return writeDefault(path)
	}

	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(cfg); err != nil {
		return nil, apperr.Config("parsing configuration", fmt.Errorf("%s: %w", path, err))
	}

	cfg.expandPaths()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, apperr.Config("validating configuration", fmt.Errorf("%s: %w", path, err))
	}

	return cfg, nil
}

// InitConfig overwrites path with the default configuration.
func InitConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	return writeDefault(path)
}

func writeDefault(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return nil, apperr.Config("writing default configuration", err)
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return atomicfile.WriteFile(path, data, 0644)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Image.Validate(); err != nil {
		return fmt.Errorf("Image: %w", err)
	}
	if err := c.Wallpaper.Validate(); err != nil {
		return fmt.Errorf("Wallpaper: %w", err)
	}
	return nil
}

// Validate validates the image configuration.
func (c *ImageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BgColor, validation.Required, validation.By(hexColor)),
		validation.Field(&c.FgColor, validation.Required, validation.By(hexColor)),
		validation.Field(&c.Width, validation.Required, validation.Min(1)),
		validation.Field(&c.Height, validation.Required, validation.Min(1)),
		validation.Field(&c.Output, validation.Required, validation.By(absolutePath)),
		validation.Field(&c.Backend, validation.In("png", "svg")),
	)
}

// Validate validates the wallpaper configuration.
func (c *WallpaperConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Method, validation.In(MethodAuto, MethodPortal, MethodGSettings, MethodNone)),
		validation.Field(&c.SetOn, validation.In("background", "lockscreen", "both")),
	)
}

func hexColor(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := colorful.Hex(s); err != nil {
		return errors.New("must be a hexadecimal color such as #FF00FF")
	}
	return nil
}

func absolutePath(value interface{}) error {
	s, _ := value.(string)
	if s != "" && !filepath.IsAbs(s) {
		return errors.New("must be an absolute path")
	}
	return nil
}

// applyDefaults fills settings that may be left blank in the file.
func (c *Config) applyDefaults() {
	if c.Wallpaper.Method == "" {
		c.Wallpaper.Method = MethodAuto
	}
	if c.Wallpaper.SetOn == "" {
		c.Wallpaper.SetOn = "both"
	}
}

// expandPaths resolves environment variables and a leading ~ in file paths.
func (c *Config) expandPaths() {
	c.Image.Output = expandPath(c.Image.Output)
	c.Image.Font = expandPath(c.Image.Font)
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
