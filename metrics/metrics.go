package metrics

import (
	"time"
)

// RecordTick records one applied tick
func (r *Registry) RecordTick(seq uint64, retargets uint64, duration time.Duration) {
	r.TicksTotal.Inc()
	r.TickDuration.Observe(duration.Seconds())
	r.RetargetsTotal.Add(float64(retargets))
	r.SnapshotSequence.Set(float64(seq))
}

// RecordPaint records one frame built for host
func (r *Registry) RecordPaint(host string) {
	r.PaintsTotal.WithLabelValues(host).Inc()
}

// SetGraphSize records the graph's fixed cardinalities
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
