package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkflowMetrics counts reservation, redemption and dropped-row outcomes.
type WorkflowMetrics struct {
	reservations *prometheus.CounterVec
	redemptions  *prometheus.CounterVec
	rowsDropped  *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow counters on reg. A nil registerer
// yields a no-op instance, as does a nil *WorkflowMetrics.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	m := &WorkflowMetrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations created, by target kind.",
		}, []string{"kind"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redemptions_total",
			Help:      "Redemption attempts, by outcome.",
		}, []string{"outcome"}),
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows omitted from read models, by query and reason.",
		}, []string{"query", "reason"}),
	}
	reg.MustRegister(m.reservations, m.redemptions, m.rowsDropped)
	return m
}

func (m *WorkflowMetrics) IncReservation(kind string) {
	if m == nil || m.reservations == nil {
		return
	}
	m.reservations.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (m *WorkflowMetrics) IncRedemption(outcome string) {
	if m == nil || m.redemptions == nil {
		return
	}
	m.redemptions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddRowsDropped adds n to the dropped counter. Non-positive n is ignored.
func (m *WorkflowMetrics) AddRowsDropped(query, reason string, n int) {
	if m == nil || m.rowsDropped == nil || n <= 0 {
		return
	}
	m.rowsDropped.WithLabelValues(normalizeLabel(query), normalizeLabel(reason)).Add(float64(n))
}
