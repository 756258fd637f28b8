package match

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		m := NewMetrics()
		reg := prometheus.NewRegistry()

		if err := m.Register(reg); err != nil {
			t.Errorf("Register() returned error: %v", err)
		}
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		m1 := NewMetrics()
		m2 := NewMetrics()
		reg := prometheus.NewRegistry()

		if err := m1.Register(reg); err != nil {
			t.Fatalf("first Register() returned error: %v", err)
		}
		if err := m2.Register(reg); err == nil {
			t.Error("second Register() should have returned an error")
		}
	})
}

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}

	m.IncRankings("applicants_for_job")
	m.IncRankings("applicants_for_job")
	m.IncScoringErrors("profile_not_found")
	m.ObserveBatchDuration("applicants_for_job", 0.02)
	m.SetLastBatchSize("applicants_for_job", 25)
	m.SetLastResultSize("applicants_for_job", 10)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() returned error: %v", err)
	}

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}

	rankings, ok := byName[MetricRankingsTotal]
	if !ok {
		t.Fatalf("metric %s not gathered", MetricRankingsTotal)
	}
	if got := rankings.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("expected 2 rankings, got %f", got)
	}

	errs, ok := byName[MetricScoringErrorsTotal]
	if !ok {
		t.Fatalf("metric %s not gathered", MetricScoringErrorsTotal)
	}
	if got := errs.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("expected 1 scoring error, got %f", got)
	}

	pool, ok := byName[MetricLastBatchPoolSize]
	if !ok {
		t.Fatalf("metric %s not gathered", MetricLastBatchPoolSize)
	}
	if got := pool.GetMetric()[0].GetGauge().GetValue(); got != 25 {
		t.Errorf("expected pool size 25, got %f", got)
	}
}
