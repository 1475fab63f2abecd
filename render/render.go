package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/models"
)

// ErrUnsupportedFormat is returned by GetRenderer for unknown formats
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Surface describes the area a host is about to paint
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Gradient is a two-stop linear background gradient
type Gradient struct {
	From    geom.Point `json:"from"`
	To      geom.Point `json:"to"`
	Colors  [2]string  `json:"colors"`
	Offsets [2]float64 `json:"offsets"`
}

// Line is one edge to stroke
type Line struct {
	From  geom.Point `json:"from"`
	To    geom.Point `json:"to"`
	Width float64    `json:"width"`
	Color string     `json:"color"`
}

// Circle is one node to fill
type Circle struct {
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
	Color  string     `json:"color"`
}

// Frame is the full set of draw commands for one paint. Backgrounds are
// drawn first, then lines, then circles
type Frame struct {
	Seq        uint64   `json:"seq"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Background Gradient `json:"background"`
	Lines      []Line   `json:"lines"`
	Circles    []Circle `json:"circles"`
}

// BuildFrame turns a snapshot into draw commands for surface. The gradient
// runs from the surface origin to its far corner with stops at
// style.GradientStart and 1-gradientOffset. The snapshot is only read
func BuildFrame(snap *models.Snapshot, surface Surface, style Style, gradientOffset float64) *Frame {
	frame := &Frame{
		Seq:    snap.Seq,
		Width:  surface.Width,
		Height: surface.Height,
		Background: Gradient{
			From:    geom.Point{X: 0, Y: 0},
			To:      geom.Point{X: surface.Width, Y: surface.Height},
			Colors:  [2]string{style.GradientFrom, style.GradientTo},
			Offsets: [2]float64{style.GradientStart, 1 - gradientOffset},
		},
		Lines:   make([]Line, len(snap.Edges)),
		Circles: make([]Circle, len(snap.Nodes)),
	}

	for i, e := range snap.Edges {
		frame.Lines[i] = Line{
			From:  e.From,
			To:    e.To,
			Width: style.EdgeWidth,
			Color: style.EdgeColor,
		}
	}

	for i, n := range snap.Nodes {
		frame.Circles[i] = Circle{
			Center: n.Position,
			Radius: style.NodeRadius,
			Color:  style.NodeColor,
		}
	}

	return frame
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render encodes a frame in the backend's format
	Render(frame *Frame) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string

	// ContentType returns the MIME type of the rendered output
	ContentType() string
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "png":
		return &PNGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Formats lists the formats GetRenderer accepts
func Formats() []string {
	return []string{"svg", "png", "ascii", "json"}
}
