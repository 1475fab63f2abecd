// Package session hosts one animated graph: it generates the graph, drives
// the mover from a scheduler and publishes immutable snapshots for painting.
//
// OnTick is the only writer. It mutates the graph under its write lock, copies
// a snapshot under the read lock and swaps it in atomically, so any number of
// painters can read the latest snapshot without ever observing a partially
// applied tick.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TFMV/driftgraph/config"
	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/graph"
	"github.com/TFMV/driftgraph/logging"
	"github.com/TFMV/driftgraph/metrics"
	"github.com/TFMV/driftgraph/models"
	"github.com/TFMV/driftgraph/physics"
	"github.com/TFMV/driftgraph/render"
	"github.com/TFMV/driftgraph/scheduler"
	"github.com/google/uuid"
)

// Options configures a session. The zero value is not useful; start from
// DefaultOptions or FromConfig.
type Options struct {
	NodeCount         int
	ExtraEdgeAttempts int
	Bounds            geom.Bounds
	Seed              *uint64 // nil draws a fresh seed
	Motion            physics.Config
	Mover             string
	TickPeriod        time.Duration
	Style             render.Style
	GradientOffset    float64
	Logger            *slog.Logger
	Metrics           *metrics.Registry // nil disables instrumentation
}

// DefaultOptions returns the stock animation on bounds.
func DefaultOptions(bounds geom.Bounds) Options {
	return Options{
		NodeCount:         graph.DefaultNodeCount,
		ExtraEdgeAttempts: graph.DefaultExtraEdgeAttempts,
		Bounds:            bounds,
		Motion:            physics.DefaultConfig(),
		Mover:             "drift",
		TickPeriod:        scheduler.DefaultPeriod,
		Style:             render.DefaultStyle(),
	}
}

// FromConfig maps a loaded configuration onto session options.
func FromConfig(cfg *config.Config) (Options, error) {
	style, err := cfg.Render.Style()
	if err != nil {
		return Options{}, fmt.Errorf("failed to resolve render style: %w", err)
	}

	opts := Options{
		NodeCount:         cfg.Graph.Nodes,
		ExtraEdgeAttempts: cfg.Graph.ExtraEdges,
		Bounds:            cfg.Bounds(),
		Seed:              cfg.Graph.Seed,
		Mover:             cfg.Motion.Mover,
		TickPeriod:        cfg.Motion.TickPeriod.Duration,
		Style:             style,
		GradientOffset:    cfg.Render.GradientOffset,
	}
	opts.Motion = cfg.Motion.Physics(0)
	return opts, nil
}

// Session is one running animation.
type Session struct {
	graph   *graph.Graph
	mover   physics.Mover
	sched   *scheduler.Scheduler
	style   render.Style
	seed    uint64
	logger  *slog.Logger
	metrics *metrics.Registry

	tickMu   sync.Mutex
	seq      uint64
	bounds   atomic.Pointer[geom.Bounds]
	snapshot atomic.Pointer[models.Snapshot]
	offset   atomic.Uint64 // math.Float64bits of the gradient offset
	dirty    chan struct{}
}

// New generates the graph and publishes snapshot 0. The scheduler is created
// but not started.
func New(opts Options) *Session {
	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	rng := geom.NewRand(seed)
	g := graph.Generate(graph.GenerateOptions{
		NodeCount:         opts.NodeCount,
		ExtraEdgeAttempts: opts.ExtraEdgeAttempts,
		Bounds:            opts.Bounds,
		ID:                graphID(seed),
	}, rng)

	motion := opts.Motion
	if motion.NoiseSeed == 0 {
		motion.NoiseSeed = int64(seed)
	}

	s := &Session{
		graph:   g,
		mover:   physics.GetMover(opts.Mover, rng, motion),
		style:   opts.Style,
		seed:    seed,
		logger:  logger,
		metrics: opts.Metrics,
		dirty:   make(chan struct{}, 1),
	}
	bounds := opts.Bounds
	s.bounds.Store(&bounds)
	s.SetGradientOffset(opts.GradientOffset)
	s.snapshot.Store(models.NewSnapshot(g, 0, bounds))
	s.sched = scheduler.New(opts.TickPeriod, func(context.Context) {
		s.OnTick()
	}, scheduler.WithLogger(logger))

	if s.metrics != nil {
		s.metrics.SetGraphSize(g.NodeCount(), g.EdgeCount())
	}

	logger.Info("session created",
		"graph", g.ID,
		"seed", seed,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"mover", s.mover.GetName(),
	)
	return s
}

// graphID derives a stable identity from the seed so seeded sessions are
// reproducible down to their node and edge IDs.
func graphID(seed uint64) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "driftgraph/%d", seed))
}

// OnTick advances the motion by one step and publishes the result. Calls are
// serialized.
func (s *Session) OnTick() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	start := time.Now()
	bounds := s.Bounds()
	before := s.retargets()

	s.mover.Step(s.graph, bounds)
	s.seq++
	s.snapshot.Store(models.NewSnapshot(s.graph, s.seq, bounds))

	if s.metrics != nil {
		s.metrics.RecordTick(s.seq, s.retargets()-before, time.Since(start))
	}

	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Session) retargets() uint64 {
	if c, ok := s.mover.(interface{ Retargets() uint64 }); ok {
		return c.Retargets()
	}
	return 0
}

// OnPaint builds draw commands for surface from the latest snapshot.
func (s *Session) OnPaint(surface render.Surface) *render.Frame {
	return render.BuildFrame(s.Snapshot(), surface, s.style, s.GradientOffset())
}

// Snapshot returns the most recently published snapshot. It is never nil and
// must not be modified.
func (s *Session) Snapshot() *models.Snapshot {
	return s.snapshot.Load()
}

// Dirty receives a value after a tick publishes a new snapshot. Signals
// coalesce: several ticks between reads yield one receive.
func (s *Session) Dirty() <-chan struct{} {
	return s.dirty
}

// Bounds returns the canvas used for new targets.
func (s *Session) Bounds() geom.Bounds {
	return *s.bounds.Load()
}

// Resize changes the canvas for targets drawn from the next tick on. Nodes
// outside the new canvas drift back in as they are retargeted.
func (s *Session) Resize(bounds geom.Bounds) {
	s.bounds.Store(&bounds)
	s.logger.Debug("canvas resized", "width", bounds.Width, "height", bounds.Height)
}

// SetGradientOffset moves the second background gradient stop to 1-v.
func (s *Session) SetGradientOffset(v float64) {
	s.offset.Store(math.Float64bits(v))
}

// GradientOffset returns the current gradient offset.
func (s *Session) GradientOffset() float64 {
	return math.Float64frombits(s.offset.Load())
}

// Style returns the drawing style.
func (s *Session) Style() render.Style {
	return s.style
}

// Seed returns the seed the session was generated from.
func (s *Session) Seed() uint64 {
	return s.seed
}

// Mover returns the motion rule's name.
func (s *Session) Mover() string {
	return s.mover.GetName()
}

// Graph exposes the live graph. Callers must go through its View and Update
// methods.
func (s *Session) Graph() *graph.Graph {
	return s.graph
}

// Start begins ticking at the configured period.
func (s *Session) Start(ctx context.Context) {
	s.logger.Info("session started", "period", s.sched.Period())
	s.sched.Start(logging.WithLogger(ctx, s.logger))
}

// Stop halts the scheduler. It never blocks and is safe from any goroutine,
// including an OnTick or OnPaint call made by the scheduler itself. No tick
// begins after Stop returns.
func (s *Session) Stop() {
	s.sched.Stop()
	s.logger.Info("session stopped", "ticks", s.sched.Ticks(), "seq", s.Snapshot().Seq)
}

// Wait blocks until the scheduler loop has exited or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	return s.sched.Wait(ctx)
}

// Pause suspends ticking without stopping the scheduler.
func (s *Session) Pause() {
	s.sched.Pause()
}

// Resume continues after Pause.
func (s *Session) Resume() {
	s.sched.Resume()
}

// Paused reports whether ticking is suspended.
func (s *Session) Paused() bool {
	return s.sched.Paused()
}

// Done is closed once the scheduler loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.sched.Done()
}
