package render

import (
	"strings"
)

// ASCIIRenderer outputs ASCII art format. Cols and Rows fix the grid size;
// when zero it is derived from the frame size
type ASCIIRenderer struct {
	Cols int
	Rows int
}

const (
	nodeSymbol = 'O'
	edgeSymbol = '·'
)

// shades maps gradient lightness onto characters, darkest first
var shades = []rune{' ', ' ', '.', ':'}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders frames as ASCII art for terminal output"
}

// ContentType returns the MIME type of ASCII output
func (r *ASCIIRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render creates an ASCII representation of the frame
func (r *ASCIIRenderer) Render(frame *Frame) ([]byte, error) {
	return []byte(r.RenderString(frame)), nil
}

// RenderString is Render without the byte conversion, for terminal hosts
func (r *ASCIIRenderer) RenderString(frame *Frame) string {
	width, height := r.Cols, r.Rows
	if width <= 0 {
		width = int(frame.Width / 10)
	}
	if height <= 0 {
		height = int(frame.Height / 20)
	}

	// Ensure minimum size
	width = max(width, 4)
	height = max(height, 3)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
	}
	r.shadeBackground(grid, frame)

	// Draw a border around the canvas
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	toCell := func(x, y float64) (int, int) {
		cx := int(scale(x, frame.Width, width-2)) + 1
		cy := int(scale(y, frame.Height, height-2)) + 1
		return clamp(cx, 1, width-2), clamp(cy, 1, height-2)
	}

	for _, l := range frame.Lines {
		x1, y1 := toCell(l.From.X, l.From.Y)
		x2, y2 := toCell(l.To.X, l.To.Y)
		drawLine(grid, x1, y1, x2, y2)
	}

	for _, c := range frame.Circles {
		x, y := toCell(c.Center.X, c.Center.Y)
		grid[y][x] = nodeSymbol
	}

	var result strings.Builder
	for i, row := range grid {
		result.WriteString(string(row))
		if i < len(grid)-1 {
			result.WriteRune('\n')
		}
	}
	return result.String()
}

// shadeBackground fills the grid with characters following the gradient's
// lightness. Invalid gradient colors leave the background blank
func (r *ASCIIRenderer) shadeBackground(grid [][]rune, frame *Frame) {
	palette, err := newGradientPalette(frame.Background)
	rows, cols := len(grid), len(grid[0])
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = ' '
			if err != nil {
				continue
			}
			// Position along the (0,0)-(w,h) diagonal, in [0,1]
			t := (float64(x)/float64(max(cols-1, 1)) + float64(y)/float64(max(rows-1, 1))) / 2
			l, _, _ := palette.at(t).Lab()
			idx := clamp(int(l*float64(len(shades))), 0, len(shades)-1)
			grid[y][x] = shades[idx]
		}
	}
}

// scale maps v in [0, extent) onto [0, cells)
func scale(v, extent float64, cells int) float64 {
	if extent <= 0 {
		return 0
	}
	return v * float64(cells) / extent
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Draw a line on the ASCII grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if x1 >= 0 && x1 < len(grid[0]) && y1 >= 0 && y1 < len(grid) {
			// Don't overwrite node symbols
			if grid[y1][x1] != nodeSymbol {
				grid[y1][x1] = edgeSymbol
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			if x1 == x2 {
				break
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				break
			}
			err += dx
			y1 += sy
		}
	}
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
