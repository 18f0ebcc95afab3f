package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for slot validation flows.
type SchedulingMetrics struct {
	checksTotal    *prometheus.CounterVec
	conflictsTotal *prometheus.CounterVec
	batchLatency   *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendly",
			Subsystem: "scheduling",
			Name:      "slot_checks_total",
			Help:      "Total slot availability checks",
		}, []string{"path", "verdict"}),
		conflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendly",
			Subsystem: "scheduling",
			Name:      "slot_conflicts_total",
			Help:      "Total blocked slots by conflict kind",
		}, []string{"kind"}),
		batchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agendly",
			Subsystem: "scheduling",
			Name:      "batch_check_latency_seconds",
			Help:      "Latency of batch availability classification",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.checksTotal, m.conflictsTotal, m.batchLatency)
	return m
}

// ObserveCheck records one availability verdict for the given path
// ("command" or "query").
func (m *SchedulingMetrics) ObserveCheck(path string, available bool) {
	if m == nil {
		return
	}
	verdict := "available"
	if !available {
		verdict = "blocked"
	}
	m.checksTotal.WithLabelValues(path, verdict).Inc()
}

// ObserveConflict records the kind of record that blocked a slot
// ("blackout" or "appointment").
func (m *SchedulingMetrics) ObserveConflict(kind string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(kind).Inc()
}

// ObserveBatchLatency records how long a batch classification took.
// source is "cache" or "store".
func (m *SchedulingMetrics) ObserveBatchLatency(source string, seconds float64) {
	if m == nil {
		return
	}
	m.batchLatency.WithLabelValues(source).Observe(seconds)
}
