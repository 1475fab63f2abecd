package render

import (
	"bytes"
	"fmt"
	"image/png"

	"git.sr.ht/~sbinet/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// PNGRenderer rasterises frames
type PNGRenderer struct{}

// Name returns the name of the renderer
func (r *PNGRenderer) Name() string {
	return "PNG Renderer"
}

// Description returns a description of the renderer
func (r *PNGRenderer) Description() string {
	return "Renders frames as antialiased PNG images"
}

// ContentType returns the MIME type of PNG output
func (r *PNGRenderer) ContentType() string {
	return "image/png"
}

// Render draws the frame into an RGBA image and encodes it as PNG
func (r *PNGRenderer) Render(frame *Frame) ([]byte, error) {
	width, height := px(frame.Width), px(frame.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cannot rasterise a %dx%d frame", width, height)
	}

	palette, err := newGradientPalette(frame.Background)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)

	bg := frame.Background
	grad := gg.NewLinearGradient(bg.From.X, bg.From.Y, bg.To.X, bg.To.Y)
	grad.AddColorStop(bg.Offsets[0], palette.from)
	grad.AddColorStop(bg.Offsets[1], palette.to)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	for _, l := range frame.Lines {
		c, err := colorful.Hex(l.Color)
		if err != nil {
			return nil, fmt.Errorf("invalid edge color %q: %w", l.Color, err)
		}
		dc.SetColor(c)
		dc.SetLineWidth(l.Width)
		dc.DrawLine(l.From.X, l.From.Y, l.To.X, l.To.Y)
		dc.Stroke()
	}

	for _, circle := range frame.Circles {
		c, err := colorful.Hex(circle.Color)
		if err != nil {
			return nil, fmt.Errorf("invalid node color %q: %w", circle.Color, err)
		}
		dc.SetColor(c)
		dc.DrawCircle(circle.Center.X, circle.Center.Y, circle.Radius)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
