package render

import (
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Style holds the fixed drawing parameters applied to every frame
type Style struct {
	NodeRadius    float64
	EdgeWidth     float64
	NodeColor     string
	EdgeColor     string
	GradientFrom  string
	GradientTo    string
	GradientStart float64 // offset of the first gradient stop
}

// DefaultStyle returns white nodes of radius 20 joined by 3px dark gray
// edges over a black to dark red gradient
func DefaultStyle() Style {
	return Style{
		NodeRadius:    20,
		EdgeWidth:     3,
		NodeColor:     "#ffffff",
		EdgeColor:     "#a9a9a9",
		GradientFrom:  "#000000",
		GradientTo:    "#8b0000",
		GradientStart: 0.005,
	}
}

// Validate checks that every color parses
func (s Style) Validate() error {
	for name, hex := range map[string]string{
		"node color":    s.NodeColor,
		"edge color":    s.EdgeColor,
		"gradient from": s.GradientFrom,
		"gradient to":   s.GradientTo,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, hex, err)
		}
	}
	return nil
}

var themes = map[string]func() Style{
	"default": DefaultStyle,
	"surreal": func() Style {
		s := DefaultStyle()
		s.NodeColor = "#ff6d00"
		s.EdgeColor = "#9c27b0"
		s.GradientFrom = "#212121"
		s.GradientTo = "#651fff"
		return s
	},
	"mono": func() Style {
		s := DefaultStyle()
		s.NodeColor = "#f8f8f8"
		s.EdgeColor = "#808080"
		s.GradientFrom = "#111111"
		s.GradientTo = "#444444"
		return s
	},
}

// Theme returns the named style
func Theme(name string) (Style, error) {
	fn, ok := themes[name]
	if !ok {
		return Style{}, fmt.Errorf("unknown theme: %s", name)
	}
	return fn(), nil
}

// ThemeNames lists the available themes in sorted order
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// gradientPalette resolves a gradient's colors once per frame
type gradientPalette struct {
	from, to colorful.Color
	offsets  [2]float64
}

func newGradientPalette(g Gradient) (*gradientPalette, error) {
	from, err := colorful.Hex(g.Colors[0])
	if err != nil {
		return nil, fmt.Errorf("invalid gradient color %q: %w", g.Colors[0], err)
	}
	to, err := colorful.Hex(g.Colors[1])
	if err != nil {
		return nil, fmt.Errorf("invalid gradient color %q: %w", g.Colors[1], err)
	}
	return &gradientPalette{from: from, to: to, offsets: g.Offsets}, nil
}

// at returns the gradient color at t along the gradient axis
func (p *gradientPalette) at(t float64) colorful.Color {
	lo, hi := p.offsets[0], p.offsets[1]
	switch {
	case t <= lo:
		return p.from
	case t >= hi:
		return p.to
	}
	return p.from.BlendRgb(p.to, (t-lo)/(hi-lo))
}
