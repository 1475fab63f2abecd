package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/graph"
	"github.com/TFMV/driftgraph/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = geom.Bounds{Width: 400, Height: 300}

func testSnapshot(t *testing.T, nodes, extra int) *models.Snapshot {
	t.Helper()
	g := graph.Generate(graph.GenerateOptions{
		NodeCount:         nodes,
		ExtraEdgeAttempts: extra,
		Bounds:            bounds,
	}, geom.NewRand(1))
	return models.NewSnapshot(g, 12, bounds)
}

func TestBuildFrame(t *testing.T) {
	snap := testSnapshot(t, 20, 40)
	surface := Surface{Width: 400, Height: 300}
	frame := BuildFrame(snap, surface, DefaultStyle(), 0)

	assert.Equal(t, uint64(12), frame.Seq)
	assert.Equal(t, geom.Point{}, frame.Background.From)
	assert.Equal(t, geom.Point{X: 400, Y: 300}, frame.Background.To)
	assert.Equal(t, [2]float64{0.005, 1}, frame.Background.Offsets)
	assert.Equal(t, [2]string{"#000000", "#8b0000"}, frame.Background.Colors)

	require.Len(t, frame.Lines, len(snap.Edges))
	require.Len(t, frame.Circles, len(snap.Nodes))
	for i, e := range snap.Edges {
		assert.Equal(t, e.From, frame.Lines[i].From)
		assert.Equal(t, e.To, frame.Lines[i].To)
		assert.Equal(t, 3.0, frame.Lines[i].Width)
	}
	for i, n := range snap.Nodes {
		assert.Equal(t, n.Position, frame.Circles[i].Center)
		assert.Equal(t, 20.0, frame.Circles[i].Radius)
	}
}

func TestBuildFrameGradientOffset(t *testing.T) {
	frame := BuildFrame(testSnapshot(t, 3, 0), Surface{Width: 10, Height: 10}, DefaultStyle(), 0.25)
	assert.Equal(t, 0.75, frame.Background.Offsets[1])
}

func TestBuildFrameDoesNotMutateSnapshot(t *testing.T) {
	snap := testSnapshot(t, 5, 5)
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	BuildFrame(snap, Surface{Width: 100, Height: 100}, DefaultStyle(), 0.5)

	after, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(after))
}

func TestBuildFrameEmptySnapshot(t *testing.T) {
	frame := BuildFrame(&models.Snapshot{}, Surface{}, DefaultStyle(), 0)
	assert.Empty(t, frame.Lines)
	assert.Empty(t, frame.Circles)
}

func TestGetRenderer(t *testing.T) {
	for _, format := range Formats() {
		r, err := GetRenderer(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, r.Name())
		assert.NotEmpty(t, r.Description())
		assert.NotEmpty(t, r.ContentType())
	}

	_, err := GetRenderer("SVG")
	assert.NoError(t, err)

	_, err = GetRenderer("webgl")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSVGRenderer(t *testing.T) {
	frame := BuildFrame(testSnapshot(t, 3, 0), Surface{Width: 400, Height: 300}, DefaultStyle(), 0)
	out, err := (&SVGRenderer{}).Render(frame)
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, "<svg")
	assert.Contains(t, doc, "linearGradient")
	assert.Contains(t, doc, "url(#background)")
	assert.Equal(t, 3, strings.Count(doc, "<line x1"))
	assert.Equal(t, 3, strings.Count(doc, "<circle cx"))
}

func TestPNGRenderer(t *testing.T) {
	frame := BuildFrame(testSnapshot(t, 4, 4), Surface{Width: 120, Height: 80}, DefaultStyle(), 0)
	out, err := (&PNGRenderer{}).Render(frame)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestPNGRendererRejectsEmptySurface(t *testing.T) {
	frame := BuildFrame(testSnapshot(t, 2, 0), Surface{}, DefaultStyle(), 0)
	_, err := (&PNGRenderer{}).Render(frame)
	assert.Error(t, err)
}

func TestPNGRendererRejectsBadColor(t *testing.T) {
	style := DefaultStyle()
	style.EdgeColor = "not-a-color"
	frame := BuildFrame(testSnapshot(t, 3, 0), Surface{Width: 10, Height: 10}, style, 0)
	_, err := (&PNGRenderer{}).Render(frame)
	assert.Error(t, err)
}

func TestASCIIRenderer(t *testing.T) {
	frame := BuildFrame(testSnapshot(t, 6, 6), Surface{Width: 400, Height: 300}, DefaultStyle(), 0)
	r := &ASCIIRenderer{Cols: 60, Rows: 20}
	out := r.RenderString(frame)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		assert.Equal(t, 60, len([]rune(line)))
	}
	assert.True(t, strings.HasPrefix(lines[0], "+-"))
	assert.Contains(t, out, string(nodeSymbol))
}

func TestASCIIRendererZeroSurface(t *testing.T) {
	frame := BuildFrame(testSnapshot(t, 3, 0), Surface{}, DefaultStyle(), 0)
	assert.NotPanics(t, func() {
		out, err := (&ASCIIRenderer{}).Render(frame)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})
}

func TestJSONRenderer(t *testing.T) {
	frame := BuildFrame(testSnapshot(t, 3, 0), Surface{Width: 10, Height: 10}, DefaultStyle(), 0)
	out, err := (&JSONRenderer{}).Render(frame)
	require.NoError(t, err)

	var decoded Frame
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded.Lines, 3)
	assert.Len(t, decoded.Circles, 3)
}

func TestThemes(t *testing.T) {
	assert.Equal(t, []string{"default", "mono", "surreal"}, ThemeNames())
	for _, name := range ThemeNames() {
		s, err := Theme(name)
		require.NoError(t, err)
		assert.NoError(t, s.Validate(), name)
	}
	_, err := Theme("neon")
	assert.Error(t, err)

	bad := DefaultStyle()
	bad.GradientTo = "#zzzzzz"
	assert.Error(t, bad.Validate())
}

func TestGradientPalette(t *testing.T) {
	p, err := newGradientPalette(Gradient{Colors: [2]string{"#000000", "#ffffff"}, Offsets: [2]float64{0.2, 0.8}})
	require.NoError(t, err)

	assert.Equal(t, p.from, p.at(0))
	assert.Equal(t, p.to, p.at(1))
	mid := p.at(0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-9)

	// Collapsed stops switch hard at the first offset
	p.offsets = [2]float64{0.5, 0.5}
	assert.Equal(t, p.from, p.at(0.5))
	assert.Equal(t, p.to, p.at(0.51))
}
