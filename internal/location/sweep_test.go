package location

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSweepJob_StartStop(t *testing.T) {
	store := NewInMemoryStore()
	job := NewSweepJob(SweepJobConfig{
		Interval: 100 * time.Millisecond,
		Logger:   quietLogger(),
	}, store)

	// Job should not be running initially
	if job.IsRunning() {
		t.Error("job should not be running before Start")
	}

	ctx := context.Background()
	if err := job.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !job.IsRunning() {
		t.Error("job should be running after Start")
	}

	// Starting again should be safe (idempotent)
	if err := job.Start(ctx); err != nil {
		t.Fatalf("Start() second call error = %v", err)
	}

	job.Stop()

	if job.IsRunning() {
		t.Error("job should not be running after Stop")
	}

	// Stopping again should be safe
	job.Stop()
}

func TestSweepJob_Defaults(t *testing.T) {
	job := NewSweepJob(SweepJobConfig{}, NewInMemoryStore())

	if job.config.Interval != DefaultSweepInterval {
		t.Errorf("expected default interval %v, got %v", DefaultSweepInterval, job.config.Interval)
	}
	if job.config.MaxAge != DefaultMaxAge {
		t.Errorf("expected default max age %v, got %v", DefaultMaxAge, job.config.MaxAge)
	}
	if job.config.Timeout != DefaultSweepTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultSweepTimeout, job.config.Timeout)
	}
	if job.config.Logger == nil {
		t.Error("expected default logger")
	}
}

func TestSweepJob_SweepNow(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	base := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	if _, err := store.Upsert(ctx, "stale", 40.0, -74.0); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	job := NewSweepJob(SweepJobConfig{
		MaxAge: 10 * time.Minute,
		Logger: quietLogger(),
	}, store)

	// The record was written 12 minutes before "now" from the job's
	// perspective, so the sweep marks it offline.
	job.SweepNow()

	rec, err := store.Latest(ctx, "stale")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if rec.Online {
		t.Error("expected stale record to be marked offline")
	}
}

func TestSweepJob_SweepNow_LeavesFreshRecords(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	if _, err := store.Upsert(ctx, "fresh", 40.0, -74.0); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	job := NewSweepJob(SweepJobConfig{
		MaxAge: 10 * time.Minute,
		Logger: quietLogger(),
	}, store)
	job.SweepNow()

	rec, err := store.Latest(ctx, "fresh")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if !rec.Online {
		t.Error("fresh record should remain online")
	}
}

// fakeJobMetrics records calls for assertions.
type fakeJobMetrics struct {
	totals    map[string]int
	errors    map[string]int
	durations int
}

func newFakeJobMetrics() *fakeJobMetrics {
	return &fakeJobMetrics{
		totals: make(map[string]int),
		errors: make(map[string]int),
	}
}

func (f *fakeJobMetrics) IncJobsTotal(jobType, status string) {
	f.totals[jobType+"/"+status]++
}

func (f *fakeJobMetrics) ObserveJobDuration(jobType string, seconds float64) {
	f.durations++
}

func (f *fakeJobMetrics) IncJobErrors(jobType, errorType string) {
	f.errors[jobType+"/"+errorType]++
}

func TestSweepJob_ReportsJobMetrics(t *testing.T) {
	store := NewInMemoryStore()
	metrics := newFakeJobMetrics()

	job := NewSweepJob(SweepJobConfig{
		Logger:     quietLogger(),
		JobMetrics: metrics,
	}, store)
	job.SweepNow()

	if metrics.totals["presence_sweep/success"] != 1 {
		t.Errorf("expected 1 success, got %d", metrics.totals["presence_sweep/success"])
	}
	if metrics.durations != 1 {
		t.Errorf("expected 1 duration sample, got %d", metrics.durations)
	}
	if len(metrics.errors) != 0 {
		t.Errorf("expected no errors, got %v", metrics.errors)
	}
}
