package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the explorer's optional telemetry counters. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RecordsDropped      prometheus.Counter
	Recomputations      *prometheus.CounterVec
	StaleResets         *prometheus.CounterVec
	AnimationsCancelled prometheus.Counter
}

// NewMetrics creates the counters and registers them on reg. Passing a nil
// registry creates unregistered counters, which is what tests usually want.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlas_records_dropped_total",
			Help: "Raw records dropped by the normalizer for missing model, embedding or cluster.",
		}),
		Recomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_recomputations_total",
			Help: "Derived cells recomputed by the explorer controller.",
		}, []string{"cell"}),
		StaleResets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_stale_resets_total",
			Help: "Selections reset to their default because they left the scope.",
		}, []string{"param"}),
		AnimationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlas_animations_cancelled_total",
			Help: "Domain animations cancelled by a newer target.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.RecordsDropped, m.Recomputations, m.StaleResets, m.AnimationsCancelled} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddDropped records n dropped raw records.
func (m *Metrics) AddDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsDropped.Add(float64(n))
}

// Recomputed counts one recomputation of the named cell.
func (m *Metrics) Recomputed(cell string) {
	if m == nil {
		return
	}
	m.Recomputations.WithLabelValues(cell).Inc()
}

// StaleReset counts one reset of the named parameter.
func (m *Metrics) StaleReset(param string) {
	if m == nil {
		return
	}
	m.StaleResets.WithLabelValues(param).Inc()
}

// AnimationCancelled counts one cancelled animation.
func (m *Metrics) AnimationCancelled() {
	if m == nil {
		return
	}
	m.AnimationsCancelled.Inc()
}
