// Package geom provides the planar primitives shared by the generator, the
// motion engine and the renderers.
package geom

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position on the canvas.
type Point = r2.Vec

// Bounds is the size of the canvas nodes are placed on.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the canvas has no area yet.
func (b Bounds) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// Rand is the random source consumed by generation and motion.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG-backed source; equal seeds replay equal sequences.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Lerp returns start + (end-start)*t. t is not clamped, so values outside
// [0, 1] extrapolate. t == 1 returns end exactly.
func Lerp(start, end Point, t float64) Point {
	if t == 1 {
		return end
	}
	return r2.Add(start, r2.Scale(t, r2.Sub(end, start)))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// RandomPoint draws x in [0, Width) and y in [0, Height). A zero-sized
// canvas collapses every draw onto the origin.
func RandomPoint(rng Rand, b Bounds) Point {
	return Point{
		X: rng.Float64() * b.Width,
		Y: rng.Float64() * b.Height,
	}
}
