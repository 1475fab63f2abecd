package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnimationMetrics() {
	r.TicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "driftgraph_ticks_total",
			Help: "Total number of motion ticks applied",
		},
	)

	r.TickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "driftgraph_tick_duration_seconds",
			Help:    "Time spent applying one motion tick and publishing its snapshot",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .016, .05},
		},
	)

	r.RetargetsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "driftgraph_retargets_total",
			Help: "Total number of node target reassignments",
		},
	)

	r.PaintsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "driftgraph_paints_total",
			Help: "Total number of frames built for a host",
		},
		[]string{"host"},
	)

	r.SnapshotSequence = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "driftgraph_snapshot_sequence",
			Help: "Tick sequence of the most recently published snapshot",
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "driftgraph_graph_nodes",
			Help: "Number of nodes in the animated graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "driftgraph_graph_edges",
			Help: "Number of edges in the animated graph",
		},
	)
}
