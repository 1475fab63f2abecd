package physics

import (
	"sync"
	"sync/atomic"

	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/graph"
	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	DefaultRetargetProbability = 0.01
	DefaultEasing              = 0.007
)

// Mover defines an interface for per-tick motion rules
type Mover interface {
	Step(g *graph.Graph, bounds geom.Bounds)
	GetName() string
}

// Config holds the motion parameters
type Config struct {
	RetargetProbability float64 // chance per node per tick of drawing a new target
	Easing              float64 // fraction of the remaining distance closed per tick
	NoiseIntensity      float64 // wobble amplitude for the surreal mover
	NoiseSeed           int64
}

// DefaultConfig returns the standard drift parameters with no wobble
func DefaultConfig() Config {
	return Config{
		RetargetProbability: DefaultRetargetProbability,
		Easing:              DefaultEasing,
	}
}

// Tick advances every node once: with probability retargetProbability the
// node gets a new target inside bounds, then its position eases toward the
// target by the easing fraction. Nodes are visited in index order, so a
// seeded rng replays the same motion
func Tick(g *graph.Graph, bounds geom.Bounds, rng geom.Rand, retargetProbability, easing float64) {
	g.Update(func(nodes []*graph.Node) {
		advance(nodes, bounds, rng, retargetProbability, easing)
	})
}

func advance(nodes []*graph.Node, bounds geom.Bounds, rng geom.Rand, retargetProbability, easing float64) int {
	retargets := 0
	for _, node := range nodes {
		if rng.Float64() < retargetProbability {
			node.Target = geom.RandomPoint(rng, bounds)
			retargets++
		}
		node.Position = geom.Lerp(node.Position, node.Target, easing)
	}
	return retargets
}

// Drift eases nodes toward randomly reassigned targets
type Drift struct {
	rng                 geom.Rand
	retargetProbability float64
	easing              float64
	retargets           atomic.Uint64
	mu                  sync.Mutex
}

// NewDrift creates a drift mover drawing from rng
func NewDrift(rng geom.Rand, cfg Config) *Drift {
	return &Drift{
		rng:                 rng,
		retargetProbability: cfg.RetargetProbability,
		easing:              cfg.Easing,
	}
}

// GetName returns the name of the mover
func (d *Drift) GetName() string {
	return "drift"
}

// Step performs one tick
func (d *Drift) Step(g *graph.Graph, bounds geom.Bounds) {
	g.Update(func(nodes []*graph.Node) {
		d.advance(nodes, bounds)
	})
}

// Retargets returns how many targets have been reassigned so far
func (d *Drift) Retargets() uint64 {
	return d.retargets.Load()
}

func (d *Drift) advance(nodes []*graph.Node, bounds geom.Bounds) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := advance(nodes, bounds, d.rng, d.retargetProbability, d.easing)
	d.retargets.Add(uint64(n))
}

// SurrealDrift layers simplex-noise wobble on top of a drift
type SurrealDrift struct {
	base           *Drift
	noiseGenerator opensimplex.Noise
	noiseScale     float64
	intensity      float64
	timeStep       float64
	mu             sync.Mutex
}

// NewSurrealDrift wraps base. Zero intensity moves nodes exactly like base
func NewSurrealDrift(base *Drift, seed int64, intensity float64) *SurrealDrift {
	return &SurrealDrift{
		base:           base,
		noiseGenerator: opensimplex.New(seed),
		noiseScale:     0.01,
		intensity:      intensity,
	}
}

// GetName returns the name of the mover
func (sd *SurrealDrift) GetName() string {
	return "surreal"
}

// Retargets returns the base drift's retarget count
func (sd *SurrealDrift) Retargets() uint64 {
	return sd.base.Retargets()
}

// Step runs the base drift and the wobble inside one update, so readers
// never see a half-applied tick
func (sd *SurrealDrift) Step(g *graph.Graph, bounds geom.Bounds) {
	g.Update(func(nodes []*graph.Node) {
		sd.base.advance(nodes, bounds)
		sd.wobble(nodes)
	})
}

func (sd *SurrealDrift) wobble(nodes []*graph.Node) {
	sd.mu.Lock()
	defer sd.mu.Unlock()

	if sd.intensity != 0 {
		for _, node := range nodes {
			// Offset each node in noise space so neighbours do not move in lockstep
			phase := float64(node.Index) * 0.1
			x := node.Position.X * sd.noiseScale
			y := node.Position.Y * sd.noiseScale
			dx := sd.noiseGenerator.Eval3(x, y, sd.timeStep+phase)
			dy := sd.noiseGenerator.Eval3(x+100, y+100, sd.timeStep+phase)
			node.Position.X += dx * sd.intensity
			node.Position.Y += dy * sd.intensity
		}
	}
	sd.timeStep += 0.01
}

// GetMover returns a mover by name
func GetMover(name string, rng geom.Rand, cfg Config) Mover {
	drift := NewDrift(rng, cfg)
	switch name {
	case "surreal":
		return NewSurrealDrift(drift, cfg.NoiseSeed, cfg.NoiseIntensity)
	default:
		// Default to plain drift
		return drift
	}
}
