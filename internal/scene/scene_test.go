package scene

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wallmemo/internal/config"
)

func testImage() config.ImageConfig {
	return config.ImageConfig{
		BgColor: "#000000",
		FgColor: "#FFFFFF",
		Width:   1366,
		Height:  768,
		Output:  "/tmp/wallpaper.png",
	}
}

func TestBuild_Layout(t *testing.T) {
	s := Build([]string{"buy milk", "call mom"}, testImage(), DefaultOptions())

	assert.Equal(t, 1366, s.Width)
	assert.Equal(t, 768, s.Height)
	assert.Equal(t, "#000000", s.Background)
	require.Len(t, s.Runs, 2)

	assert.Equal(t, TextRun{
		Text: "0) buy milk", X: 150, Y: 100, FontSize: 30, Family: "Sans", Fill: "#FFFFFF",
	}, s.Runs[0])
	assert.Equal(t, TextRun{
		Text: "1) call mom", X: 150, Y: 140, FontSize: 30, Family: "Sans", Fill: "#FFFFFF",
	}, s.Runs[1])
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil, testImage(), DefaultOptions())
	assert.Empty(t, s.Runs)
	assert.Equal(t, "#000000", s.Background)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		i    int
		note string
		opts Options
		want string
	}{
		{"numbered", 0, "alpha", Options{RowNumbers: true}, "0) alpha"},
		{"numbered second", 1, "beta", Options{RowNumbers: true}, "1) beta"},
		{"numbered empty note", 3, "", Options{RowNumbers: true}, "3) "},
		{"plain", 1, "beta", Options{}, "beta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.i, tt.note, tt.opts))
		})
	}
}

func TestBuild_NoRowNumbers(t *testing.T) {
	s := Build([]string{"alpha", "beta"}, testImage(), Options{})
	require.Len(t, s.Runs, 2)
	assert.Equal(t, "alpha", s.Runs[0].Text)
	assert.Equal(t, "beta", s.Runs[1].Text)
}

func TestBuild_Pure(t *testing.T) {
	notes := []string{"a", "b & <c>"}
	s1 := Build(notes, testImage(), DefaultOptions())
	s2 := Build(notes, testImage(), DefaultOptions())
	assert.Equal(t, s1, s2)

	b1, err := s1.MarshalSVG()
	require.NoError(t, err)
	b2, err := s2.MarshalSVG()
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestMarshalSVG(t *testing.T) {
	s := Build([]string{"fish & <chips>", "second"}, testImage(), DefaultOptions())
	data, err := s.MarshalSVG()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, out, `width="1366"`)
	assert.Contains(t, out, `fill="#000000"`)
	assert.Contains(t, out, "0) fish &amp; &lt;chips&gt;")
	assert.NotContains(t, out, "<chips>")

	var doc svgDocument
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Texts, 2)
	assert.Equal(t, "0) fish & <chips>", doc.Texts[0].Content)
	assert.Equal(t, 100.0, doc.Texts[0].Y)
	assert.Equal(t, 140.0, doc.Texts[1].Y)
	assert.Equal(t, 150.0, doc.Texts[1].X)
	assert.Equal(t, "30px", doc.Texts[1].FontSize)
	assert.Equal(t, "#FFFFFF", doc.Texts[1].Fill)
}
