package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	rasterx "golang.org/x/image/vector"
)

// Encoder writes a single frame in some output format.
type Encoder interface {
	Encode(w io.Writer, frame Frame) error
	Name() string
}

// GetEncoder returns the encoder for format, one of svg, png or json.
func GetEncoder(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "svg":
		return SVGEncoder{}, nil
	case "png":
		return PNGEncoder{InvertColor: false}, nil
	case "json":
		return JSONEncoder{}, nil
	default:
		return nil, errors.Errorf("unsupported output format '%s'", format)
	}
}

type SVGEncoder struct{}

func (SVGEncoder) Name() string { return "svg" }

func (SVGEncoder) Encode(w io.Writer, frame Frame) error {
	buf := bytes.Buffer{}
	fmt.Fprintf(&buf, `<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">`+"\n",
		frame.Width, frame.Height, frame.Width, frame.Height)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="#14122b"/>`+"\n")
	for _, edge := range frame.Edges {
		rad := edge.Angle * math.Pi / 180
		fmt.Fprintf(&buf, `<line class="skill-connection" x1="%g" y1="%g" x2="%g" y2="%g" stroke="#b8a9ff" stroke-width="%g" stroke-opacity="%g"/>`+"\n",
			edge.X, edge.Y, edge.X+edge.Length*math.Cos(rad), edge.Y+edge.Length*math.Sin(rad), edge.Thickness, edge.Opacity)
	}
	for _, node := range frame.Nodes {
		cx, cy := node.Center()
		fmt.Fprintf(&buf, `<g class="skill-node"><circle cx="%g" cy="%g" r="%g" fill="#6c5ce7"/>`, cx, cy, node.Diameter/2)
		fmt.Fprintf(&buf, `<text x="%g" y="%g" font-size="%g" fill="#ffffff" text-anchor="middle" dominant-baseline="middle">`, cx, cy, node.FontSize)
		if err := xml.EscapeText(&buf, []byte(node.Label)); err != nil {
			return errors.Wrapf(err, "failed to escape label of node '%s'", node.ID)
		}
		buf.WriteString("</text></g>\n")
	}
	buf.WriteString("</svg>\n")
	_, err := buf.WriteTo(w)
	return errors.Wrap(err, "failed to write svg")
}

type JSONEncoder struct{}

func (JSONEncoder) Name() string { return "json" }

func (JSONEncoder) Encode(w io.Writer, frame Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(frame), "failed to write json frame")
}

// PNGEncoder rasterizes edges and nodes with anti-aliasing. Labels are not
// drawn.
type PNGEncoder struct {
	InvertColor bool
}

func (PNGEncoder) Name() string { return "png" }

func (e PNGEncoder) Encode(w io.Writer, frame Frame) error {
	width, height := int(math.Ceil(frame.Width)), int(math.Ceil(frame.Height))
	if width <= 0 || height <= 0 {
		return errors.Errorf("cannot rasterize frame of size %gx%g", frame.Width, frame.Height)
	}
	if width > MaxRasterSize || height > MaxRasterSize {
		return errors.Errorf("frame of size %gx%g exceeds the raster limit of %d", frame.Width, frame.Height, MaxRasterSize)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	background, foreground := color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255}
	if e.InvertColor {
		background, foreground = foreground, background
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	r := rasterx.NewRasterizer(width, height)
	for _, edge := range frame.Edges {
		rad := edge.Angle * math.Pi / 180
		r.Reset(width, height)
		if !strokePath(r, edge.X, edge.Y, edge.X+edge.Length*math.Cos(rad), edge.Y+edge.Length*math.Sin(rad), edge.Thickness) {
			continue
		}
		c := color.NRGBA{foreground.R, foreground.G, foreground.B, uint8(math.Round(255 * edge.Opacity))}
		r.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
	}
	for _, node := range frame.Nodes {
		cx, cy := node.Center()
		r.Reset(width, height)
		circlePath(r, cx, cy, node.Diameter/2)
		r.Draw(img, img.Bounds(), image.NewUniform(foreground), image.Point{})
	}
	return errors.Wrap(png.Encode(w, img), "failed to write png")
}

// MaxRasterSize bounds the width and height of a rasterized frame.
const MaxRasterSize = 16384

// strokePath adds the line as a rectangle of the given thickness. It returns
// false for a line of zero length.
func strokePath(r *rasterx.Rasterizer, x1, y1, x2, y2, thickness float64) bool {
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return false
	}
	nx, ny := -(y2-y1)/length*thickness/2, (x2-x1)/length*thickness/2
	r.MoveTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x2+nx), float32(y2+ny))
	r.LineTo(float32(x2-nx), float32(y2-ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.ClosePath()
	return true
}

// circlePath adds a circle made of four cubic bezier segments.
func circlePath(r *rasterx.Rasterizer, cx, cy, radius float64) {
	k := 0.5522847498 * radius
	f := func(v float64) float32 { return float32(v) }
	r.MoveTo(f(cx+radius), f(cy))
	r.CubeTo(f(cx+radius), f(cy+k), f(cx+k), f(cy+radius), f(cx), f(cy+radius))
	r.CubeTo(f(cx-k), f(cy+radius), f(cx-radius), f(cy+k), f(cx-radius), f(cy))
	r.CubeTo(f(cx-radius), f(cy-k), f(cx-k), f(cy-radius), f(cx), f(cy-radius))
	r.CubeTo(f(cx+k), f(cy-radius), f(cx+radius), f(cy-k), f(cx+radius), f(cy))
	r.ClosePath()
}
