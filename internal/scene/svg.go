package scene

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const svgNamespace = "http://www.w3.org/2000/svg"

type svgDocument struct {
	XMLName xml.Name  `xml:"svg"`
	Xmlns   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Width   int       `xml:"width,attr"`
	Height  int       `xml:"height,attr"`
	Rect    svgRect   `xml:"rect"`
	Texts   []svgText `xml:"text"`
}

type svgRect struct {
	X      int    `xml:"x,attr"`
	Y      int    `xml:"y,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Fill   string `xml:"fill,attr"`
}

type svgText struct {
	X          float64 `xml:"x,attr"`
	Y          float64 `xml:"y,attr"`
	FontFamily string  `xml:"font-family,attr"`
	FontSize   string  `xml:"font-size,attr"`
	Fill       string  `xml:"fill,attr"`
	Style      string  `xml:"style,attr"`
	Content    string  `xml:",chardata"`
}

// MarshalSVG encodes the scene as an SVG document. Note text is escaped.
func (s Scene) MarshalSVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSVG writes the SVG document to w.
func (s Scene) WriteSVG(w io.Writer) error {
	doc := svgDocument{
		Xmlns:   svgNamespace,
		Version: "1.1",
		Width:   s.Width,
		Height:  s.Height,
		Rect: svgRect{
			Width:  s.Width,
			Height: s.Height,
			Fill:   s.Background,
		},
		Texts: make([]svgText, len(s.Runs)),
	}
	for i, r := range s.Runs {
		doc.Texts[i] = svgText{
			X:          r.X,
			Y:          r.Y,
			FontFamily: r.Family,
			FontSize:   fmt.Sprintf("%gpx", r.FontSize),
			Fill:       r.Fill,
			Style:      "white-space:pre",
			Content:    r.Text,
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding svg: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
