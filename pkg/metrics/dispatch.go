package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records assignment outcomes and selection latency.
type DispatchMetrics struct {
	assignments *prometheus.CounterVec
	transitions *prometheus.CounterVec
	noCandidate prometheus.Counter
	selection   prometheus.Histogram
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignments_created_total",
		Help: "Order assignments created, labeled by type.",
	}, []string{"type"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_transitions_total",
		Help: "Assignment state transitions, labeled by target status.",
	}, []string{"status"})
	noCandidate := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_no_candidate_total",
		Help: "Auto-assignment attempts that found no eligible partner.",
	})
	selection := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "partner_selection_duration_seconds",
		Help:    "Duration of partner selection in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(assignments, transitions, noCandidate, selection)
	return &DispatchMetrics{
		assignments: assignments,
		transitions: transitions,
		noCandidate: noCandidate,
		selection:   selection,
	}
}

// IncAssignment increments the created counter for the assignment type.
func (d *DispatchMetrics) IncAssignment(assignmentType string) {
	if d == nil || d.assignments == nil {
		return
	}
	d.assignments.WithLabelValues(normalizeLabel(assignmentType)).Inc()
}

// IncTransition increments the transition counter for the target status.
func (d *DispatchMetrics) IncTransition(status string) {
	if d == nil || d.transitions == nil {
		return
	}
	d.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncNoCandidate counts a selection that returned no partner.
func (d *DispatchMetrics) IncNoCandidate() {
	if d == nil || d.noCandidate == nil {
		return
	}
	d.noCandidate.Inc()
}

// ObserveSelection records how long partner selection took.
func (d *DispatchMetrics) ObserveSelection(duration time.Duration) {
	if d == nil || d.selection == nil {
		return
	}
	d.selection.Observe(duration.Seconds())
}
