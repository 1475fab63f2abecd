package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders frames as Scalable Vector Graphics (SVG)"
}

// ContentType returns the MIME type of SVG output
func (r *SVGRenderer) ContentType() string {
	return "image/svg+xml"
}

// Render creates an SVG document for the frame
func (r *SVGRenderer) Render(frame *Frame) ([]byte, error) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	width, height := px(frame.Width), px(frame.Height)
	canvas.Start(width, height)

	// The gradient spans the bounding box diagonally, matching From=(0,0) To=(w,h)
	canvas.Def()
	canvas.LinearGradient("background", 0, 0, 100, 100, []svg.Offcolor{
		{Offset: percent(frame.Background.Offsets[0]), Color: frame.Background.Colors[0], Opacity: 1},
		{Offset: percent(frame.Background.Offsets[1]), Color: frame.Background.Colors[1], Opacity: 1},
	})
	canvas.DefEnd()
	canvas.Rect(0, 0, width, height, "fill:url(#background)")

	for _, l := range frame.Lines {
		canvas.Line(px(l.From.X), px(l.From.Y), px(l.To.X), px(l.To.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-linecap:round", l.Color, l.Width))
	}

	for _, c := range frame.Circles {
		canvas.Circle(px(c.Center.X), px(c.Center.Y), px(c.Radius),
			fmt.Sprintf("fill:%s;stroke:%s", c.Color, c.Color))
	}

	canvas.End()
	return buf.Bytes(), nil
}

func px(v float64) int {
	return int(math.Round(v))
}

// percent converts a [0,1] stop offset to the 0-100 scale svgo expects
func percent(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 100))
}
