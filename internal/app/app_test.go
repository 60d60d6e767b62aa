package app

import (
	"context"
	"encoding/xml"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wallmemo/internal/apperr"
	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/planner"
)

type recordingSetter struct {
	paths []string
	err   error
}

func (r *recordingSetter) Name() string { return "recording" }

func (r *recordingSetter) Set(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

type env struct {
	dir          string
	configPath   string
	contentsPath string
	output       string
}

// newEnv writes a configuration rendering SVG into a temp directory.
func newEnv(t *testing.T, ext string) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	e := env{
		dir:          dir,
		configPath:   filepath.Join(dir, "wallmemo", "config.toml"),
		contentsPath: filepath.Join(dir, "wallmemo", "contents"),
		output:       filepath.Join(dir, "out", "wallpaper"+ext),
	}

	cfg := config.DefaultConfig()
	cfg.Image.Output = e.output
	cfg.Image.Width = 400
	cfg.Image.Height = 300
	cfg.Wallpaper.Method = config.MethodNone
	require.NoError(t, cfg.Save(e.configPath))
	return e
}

func (e env) options(inv planner.Invocation) Options {
	return Options{
		ConfigPath:   e.configPath,
		ContentsPath: e.contentsPath,
		Invocation:   inv,
		RowNumbers:   true,
	}
}

func (e env) writeContents(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(e.contentsPath), 0755))
	require.NoError(t, os.WriteFile(e.contentsPath, []byte(content), 0600))
}

func (e env) readContents(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.contentsPath)
	require.NoError(t, err)
	return string(data)
}

type svgText struct {
	Y       float64 `xml:"y,attr"`
	Content string  `xml:",chardata"`
}

type svgDoc struct {
	Texts []svgText `xml:"text"`
}

func (e env) readSVG(t *testing.T) svgDoc {
	t.Helper()
	data, err := os.ReadFile(e.output)
	require.NoError(t, err)
	var doc svgDoc
	require.NoError(t, xml.Unmarshal(data, &doc))
	return doc
}

func TestRun_AppendToEmpty(t *testing.T) {
	e := newEnv(t, ".svg")

	res, err := Run(context.Background(), e.options(planner.NewInvocation("buy milk", "call mom")))
	require.NoError(t, err)
	assert.Equal(t, []string{"buy milk", "call mom"}, res.Notes)
	assert.Equal(t, e.output, res.Output)

	assert.Equal(t, "buy milk\ncall mom\n", e.readContents(t))

	doc := e.readSVG(t)
	require.Len(t, doc.Texts, 2)
	assert.Equal(t, "0) buy milk", doc.Texts[0].Content)
	assert.Equal(t, 100.0, doc.Texts[0].Y)
	assert.Equal(t, "1) call mom", doc.Texts[1].Content)
	assert.Equal(t, 140.0, doc.Texts[1].Y)
}

func TestRun_ReplaceSlot(t *testing.T) {
	e := newEnv(t, ".svg")
	e.writeContents(t, "a\nb\nc\n")

	inv := planner.NewInvocation("B2")
	inv.Replace = 1
	_, err := Run(context.Background(), e.options(inv))
	require.NoError(t, err)

	assert.Equal(t, "a\nB2\nc\n", e.readContents(t))
	doc := e.readSVG(t)
	require.Len(t, doc.Texts, 3)
	assert.Equal(t, "1) B2", doc.Texts[1].Content)
}

func TestRun_Flush(t *testing.T) {
	e := newEnv(t, ".svg")
	e.writeContents(t, "x\ny\n")

	inv := planner.NewInvocation("z")
	inv.Flush = true
	_, err := Run(context.Background(), e.options(inv))
	require.NoError(t, err)

	assert.Equal(t, "z\n", e.readContents(t))
	doc := e.readSVG(t)
	require.Len(t, doc.Texts, 1)
	assert.Equal(t, "0) z", doc.Texts[0].Content)
}

func TestRun_NoLine(t *testing.T) {
	e := newEnv(t, ".svg")
	opts := e.options(planner.NewInvocation("alpha"))
	opts.RowNumbers = false

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	doc := e.readSVG(t)
	require.Len(t, doc.Texts, 1)
	assert.Equal(t, "alpha", doc.Texts[0].Content)
}

func TestRun_NoOpRoundTrip(t *testing.T) {
	e := newEnv(t, ".svg")
	e.writeContents(t, "one\n\nthree\n")

	_, err := Run(context.Background(), e.options(planner.NewInvocation()))
	require.NoError(t, err)
	assert.Equal(t, "one\n\nthree\n", e.readContents(t))
}

func TestRun_PNG(t *testing.T) {
	e := newEnv(t, ".png")

	_, err := Run(context.Background(), e.options(planner.NewInvocation("hello")))
	require.NoError(t, err)

	f, err := os.Open(e.output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	lit := 0
	for y := 72; y < 100; y++ {
		for x := 150; x < 400; x++ {
			if _, g, _, _ := img.At(x, y).RGBA(); g>>8 > 0x80 {
				lit++
			}
		}
	}
	assert.Positive(t, lit, "expected glyphs above the first baseline")
}

func TestRun_WallpaperFailureIsNotFatal(t *testing.T) {
	e := newEnv(t, ".svg")
	setter := &recordingSetter{err: errors.New("no desktop")}

	opts := e.options(planner.NewInvocation("note"))
	opts.SetWallpaper = true
	opts.Setter = setter

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{e.output}, setter.paths)
	assert.Equal(t, "note\n", e.readContents(t))
}

func TestRun_WallpaperSkipped(t *testing.T) {
	e := newEnv(t, ".svg")
	setter := &recordingSetter{}

	opts := e.options(planner.NewInvocation("note"))
	opts.Setter = setter

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, setter.paths)
}

func TestRun_InvalidConfig(t *testing.T) {
	e := newEnv(t, ".svg")
	require.NoError(t, os.WriteFile(e.configPath, []byte("[Image]\nbgcolor = \"purple-ish\"\n"), 0644))
	e.writeContents(t, "keep\n")

	_, err := Run(context.Background(), e.options(planner.NewInvocation("new")))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfig)
	assert.Equal(t, "keep\n", e.readContents(t))
}

func TestRun_RenderFailureKeepsContents(t *testing.T) {
	e := newEnv(t, ".svg")
	e.writeContents(t, "keep\n")

	// Output directory blocked by a regular file.
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "out"), []byte("x"), 0644))

	_, err := Run(context.Background(), e.options(planner.NewInvocation("new")))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrIO)
	assert.Equal(t, "keep\n", e.readContents(t))
}

func TestRun_InitRewritesConfig(t *testing.T) {
	e := newEnv(t, ".svg")
	require.NoError(t, os.WriteFile(e.configPath, []byte("garbage = [\n"), 0644))

	opts := e.options(planner.NewInvocation())
	opts.Init = true
	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultOutputPath(), res.Output)

	_, err = config.LoadConfig(e.configPath)
	assert.NoError(t, err)
}
