package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts promotion and propagation activity. A nil *Recorder is
// valid and records nothing, so library consumers are not forced to wire
// prometheus.
type Recorder struct {
	promotions   *prometheus.CounterVec
	propagations *prometheus.CounterVec
	conflicts    prometheus.Counter
	violations   prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		promotions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_promotions_total",
			Help: "Revisions promoted, by entity kind.",
		}, []string{"kind"}),
		propagations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_propagations_total",
			Help: "Ancestor revisions synthesized by propagation, by entity kind.",
		}, []string{"kind"}),
		conflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_promotion_conflicts_total",
			Help: "Promotions abandoned after the retry budget was exhausted.",
		}),
		violations: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_consistency_violations_total",
			Help: "Propagation attempts that matched a non-current ancestor revision.",
		}),
	}
}

func (r *Recorder) Promotion(kind string) {
	if r == nil {
		return
	}
	r.promotions.WithLabelValues(kind).Inc()
}

func (r *Recorder) Propagation(kind string) {
	if r == nil {
		return
	}
	r.propagations.WithLabelValues(kind).Inc()
}

func (r *Recorder) Conflict() {
	if r == nil {
		return
	}
	r.conflicts.Inc()
}

func (r *Recorder) ConsistencyViolation() {
	if r == nil {
		return
	}
	r.violations.Inc()
}
