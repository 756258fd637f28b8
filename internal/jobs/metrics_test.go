package jobs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
	if len(m.Collectors()) != 3 {
		t.Errorf("expected 3 collectors, got %d", len(m.Collectors()))
	}
}

func TestMetrics_Register(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	if err := m.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Double registration must fail.
	if err := m.Register(reg); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestMetrics_IncJobsTotal(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	m.IncJobsTotal(JobTypePresenceSweep, StatusSuccess)
	m.IncJobsTotal(JobTypePresenceSweep, StatusSuccess)
	m.IncJobsTotal(JobTypePresenceSweep, StatusFailure)

	got := counterValue(t, reg, MetricBackgroundJobsTotal, map[string]string{
		"job_type": JobTypePresenceSweep,
		"status":   StatusSuccess,
	})
	if got != 2 {
		t.Errorf("expected success count 2, got %v", got)
	}
}

func TestMetrics_ObserveJobDuration(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	m.ObserveJobDuration(JobTypePresenceSweep, 0.5)
	m.ObserveJobDuration(JobTypePresenceSweep, 1.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != MetricBackgroundJobsDuration {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 2 {
			t.Errorf("expected 2 samples, got %d", h.GetSampleCount())
		}
		if h.GetSampleSum() != 2.0 {
			t.Errorf("expected sample sum 2.0, got %v", h.GetSampleSum())
		}
		return
	}
	t.Fatalf("metric %s not found", MetricBackgroundJobsDuration)
}

func TestMetrics_IncJobErrors(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	m.IncJobErrors(JobTypePresenceSweep, "timeout")

	got := counterValue(t, reg, MetricBackgroundJobErrorsTotal, map[string]string{
		"job_type":   JobTypePresenceSweep,
		"error_type": "timeout",
	})
	if got != 1 {
		t.Errorf("expected error count 1, got %v", got)
	}
}

// counterValue extracts a counter value for the given label set.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if want[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}
