package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestDispatchMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewDispatchMetrics(reg)
	metrics.IncAssignment("auto")
	metrics.IncTransition("delivered")
	metrics.IncNoCandidate()
	metrics.ObserveSelection(30 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "assignments_created_total", "type", "auto"); err != nil {
		t.Fatalf("fetch assignments: %v", err)
	} else if got != 1 {
		t.Fatalf("expected assignments=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "assignment_transitions_total", "status", "delivered"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected transitions=1, got %f", got)
	}

	if mf := findMetricFamily(mfs, "assignment_no_candidate_total"); mf == nil {
		t.Fatalf("no-candidate counter not exported")
	} else if mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected no-candidate=1")
	}

	if mf := findMetricFamily(mfs, "partner_selection_duration_seconds"); mf == nil {
		t.Fatalf("selection histogram not exported")
	} else if mf.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatalf("expected selection duration sum > 0")
	}
}

func TestDispatchMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewDispatchMetrics(nil)
	metrics.IncAssignment("manual")
	metrics.IncNoCandidate()
	metrics.ObserveSelection(time.Millisecond)
}
