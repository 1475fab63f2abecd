package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/TFMV/driftgraph/config"
	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/graph"
	"github.com/TFMV/driftgraph/metrics"
	"github.com/TFMV/driftgraph/render"
	"github.com/TFMV/driftgraph/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = geom.Bounds{Width: 800, Height: 600}

func seeded(seed uint64) Options {
	opts := DefaultOptions(bounds)
	opts.Seed = &seed
	return opts
}

func TestNewPublishesInitialSnapshot(t *testing.T) {
	s := New(seeded(1))

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, uint64(0), snap.Seq)
	assert.Len(t, snap.Nodes, graph.DefaultNodeCount)
	assert.GreaterOrEqual(t, len(snap.Edges), graph.DefaultNodeCount)
	assert.Equal(t, s.Graph().ID, snap.GraphID)
	assert.Equal(t, uint64(1), s.Seed())
	assert.Equal(t, "drift", s.Mover())
	for _, n := range snap.Nodes {
		assert.Equal(t, n.Position, n.Target)
	}
}

func TestSeededSessionsMatch(t *testing.T) {
	a, b := New(seeded(42)), New(seeded(42))
	for i := 0; i < 200; i++ {
		a.OnTick()
		b.OnTick()
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	assert.Equal(t, sa.GraphID, sb.GraphID)
	assert.Equal(t, sa.Nodes, sb.Nodes)
	assert.Equal(t, sa.Edges, sb.Edges)
}

func TestOnTickAdvancesSequence(t *testing.T) {
	s := New(seeded(2))
	first := s.Snapshot()

	s.OnTick()
	s.OnTick()

	assert.Equal(t, uint64(2), s.Snapshot().Seq)
	assert.Equal(t, uint64(0), first.Seq, "published snapshots are immutable")
}

func TestDirtyCoalesces(t *testing.T) {
	s := New(seeded(3))
	s.OnTick()
	s.OnTick()
	s.OnTick()

	select {
	case <-s.Dirty():
	default:
		t.Fatal("expected a dirty signal")
	}
	select {
	case <-s.Dirty():
		t.Fatal("dirty signals should coalesce")
	default:
	}
}

func TestOnPaintUsesLatestSnapshot(t *testing.T) {
	s := New(seeded(4))
	s.OnTick()

	frame := s.OnPaint(render.Surface{Width: 1024, Height: 768})
	snap := s.Snapshot()

	assert.Equal(t, snap.Seq, frame.Seq)
	require.Len(t, frame.Circles, len(snap.Nodes))
	require.Len(t, frame.Lines, len(snap.Edges))
	for i, c := range frame.Circles {
		assert.Equal(t, snap.Nodes[i].Position, c.Center)
		assert.Equal(t, 20.0, c.Radius)
	}
	assert.Equal(t, [2]float64{0.005, 1}, frame.Background.Offsets)
	assert.Equal(t, geom.Point{X: 1024, Y: 768}, frame.Background.To)
}

func TestGradientOffset(t *testing.T) {
	s := New(seeded(5))
	assert.Equal(t, 0.0, s.GradientOffset())

	s.SetGradientOffset(0.25)
	assert.Equal(t, 0.25, s.GradientOffset())
	frame := s.OnPaint(render.Surface{Width: 10, Height: 10})
	assert.Equal(t, 0.75, frame.Background.Offsets[1])
}

func TestResizeConstrainsNewTargets(t *testing.T) {
	opts := seeded(6)
	opts.Motion.RetargetProbability = 1
	s := New(opts)

	small := geom.Bounds{Width: 10, Height: 5}
	s.Resize(small)
	s.OnTick()

	snap := s.Snapshot()
	assert.Equal(t, small, snap.Bounds)
	for _, n := range snap.Nodes {
		assert.GreaterOrEqual(t, n.Target.X, 0.0)
		assert.Less(t, n.Target.X, small.Width)
		assert.GreaterOrEqual(t, n.Target.Y, 0.0)
		assert.Less(t, n.Target.Y, small.Height)
	}
}

func TestEmptySession(t *testing.T) {
	opts := seeded(7)
	opts.NodeCount = 0
	s := New(opts)
	s.OnTick()

	frame := s.OnPaint(render.Surface{Width: 100, Height: 100})
	assert.Empty(t, frame.Circles)
	assert.Empty(t, frame.Lines)
}

// Every node is placed on the diagonal with a diagonal target and no
// retargeting, so easing keeps X == Y. Any snapshot mixing two ticks would
// show an edge endpoint that differs from its node's position.
func TestConcurrentPaintsSeeConsistentSnapshots(t *testing.T) {
	opts := seeded(8)
	opts.Motion.RetargetProbability = 0
	opts.Motion.Easing = 0.05
	s := New(opts)

	s.Graph().Update(func(nodes []*graph.Node) {
		for i, n := range nodes {
			v := float64(i * 10)
			n.Position = geom.Point{X: v, Y: v}
			w := float64(500 - i*7)
			n.Target = geom.Point{X: w, Y: w}
		}
	})
	s.OnTick()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			s.OnTick()
		}
		cancel()
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var lastSeq uint64
			for ctx.Err() == nil {
				snap := s.Snapshot()
				if snap.Seq < lastSeq {
					t.Errorf("sequence went backwards: %d after %d", snap.Seq, lastSeq)
					return
				}
				lastSeq = snap.Seq

				for _, n := range snap.Nodes {
					if n.Position.X != n.Position.Y {
						t.Errorf("torn node %d at seq %d: %v", n.Index, snap.Seq, n.Position)
						return
					}
				}
				for _, e := range snap.Edges {
					if e.From != snap.Nodes[e.Start].Position || e.To != snap.Nodes[e.End].Position {
						t.Errorf("edge %d-%d does not match its nodes at seq %d", e.Start, e.End, snap.Seq)
						return
					}
				}
				s.OnPaint(render.Surface{Width: 800, Height: 600})
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, uint64(2001), s.Snapshot().Seq)
}

func TestStartStop(t *testing.T) {
	opts := seeded(9)
	opts.TickPeriod = time.Millisecond
	s := New(opts)

	s.Start(context.Background())
	select {
	case <-s.Dirty():
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}
	s.Stop()
	require.NoError(t, s.Wait(context.Background()))

	seq := s.Snapshot().Seq
	assert.Positive(t, seq)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, seq, s.Snapshot().Seq, "no ticks after Stop")

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed after Wait")
	}
}

func TestStopFromTickCallback(t *testing.T) {
	opts := seeded(9)
	opts.TickPeriod = time.Millisecond
	s := New(opts)

	returned := make(chan struct{})
	var once sync.Once
	s.sched = scheduler.New(opts.TickPeriod, func(context.Context) {
		s.OnTick()
		once.Do(func() {
			s.Stop()
			close(returned)
		})
	})
	s.Start(context.Background())

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop called during a tick did not return")
	}
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, uint64(1), s.Snapshot().Seq)
}

func TestPauseResume(t *testing.T) {
	s := New(seeded(10))
	s.Pause()
	assert.True(t, s.Paused())
	s.Resume()
	assert.False(t, s.Paused())
}

func TestMetricsRecorded(t *testing.T) {
	reg := metrics.NewRegistry()
	opts := seeded(11)
	opts.Metrics = reg
	opts.Motion.RetargetProbability = 1
	s := New(opts)

	s.OnTick()
	s.OnTick()

	assert.Equal(t, 2.0, counterValue(t, reg.TicksTotal))
	assert.Equal(t, 2.0, gaugeValue(t, reg.SnapshotSequence))
	assert.Equal(t, float64(2*graph.DefaultNodeCount), counterValue(t, reg.RetargetsTotal))
	assert.Equal(t, float64(graph.DefaultNodeCount), gaugeValue(t, reg.GraphNodesTotal))
	assert.Equal(t, float64(s.Graph().EdgeCount()), gaugeValue(t, reg.GraphEdgesTotal))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.Gauge.GetValue()
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	seed := uint64(99)
	cfg.Graph.Seed = &seed
	cfg.Graph.Nodes = 7
	cfg.Render.Theme = "mono"
	cfg.Render.GradientOffset = 0.5
	cfg.Motion.Mover = "surreal"

	opts, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 7, opts.NodeCount)
	assert.Equal(t, &seed, opts.Seed)
	assert.Equal(t, cfg.Bounds(), opts.Bounds)
	assert.Equal(t, "#808080", opts.Style.EdgeColor)

	s := New(opts)
	assert.Equal(t, "surreal", s.Mover())
	assert.Equal(t, 0.5, s.GradientOffset())
	assert.Len(t, s.Snapshot().Nodes, 7)
}
