package location

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JobMetrics provides centralized background job metrics tracking.
// This interface allows the job to report to the centralized job metrics system.
type JobMetrics interface {
	IncJobsTotal(jobType, status string)
	ObserveJobDuration(jobType string, seconds float64)
	IncJobErrors(jobType, errorType string)
}

const sweepJobType = "presence_sweep"

// DefaultSweepInterval is the default interval between sweep cycles.
const DefaultSweepInterval = time.Minute

// DefaultSweepTimeout is the default timeout for a single sweep cycle.
const DefaultSweepTimeout = 30 * time.Second

// DefaultMaxAge is how stale a record may be before the sweep marks it offline.
const DefaultMaxAge = 10 * time.Minute

// SweepJobConfig configures the stale-location sweep job.
type SweepJobConfig struct {
	// Interval is the duration between sweep cycles.
	Interval time.Duration
	// MaxAge is the staleness threshold for marking records offline.
	MaxAge time.Duration
	// Logger for job activity.
	Logger *slog.Logger
	// JobMetrics for centralized background job tracking.
	JobMetrics JobMetrics
	// Timeout for each sweep cycle.
	Timeout time.Duration
}

// SweepJob periodically marks offline any candidate whose last location
// report is older than MaxAge. Candidates whose presence key expired but
// whose durable record still says online get cleaned up here.
type SweepJob struct {
	config SweepJobConfig
	store  Store

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSweepJob creates a new stale-location sweep job.
func NewSweepJob(config SweepJobConfig, store Store) *SweepJob {
	if config.Interval == 0 {
		config.Interval = DefaultSweepInterval
	}
	if config.MaxAge == 0 {
		config.MaxAge = DefaultMaxAge
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultSweepTimeout
	}

	return &SweepJob{
		config: config,
		store:  store,
	}
}

// Start begins the periodic sweep job.
// Returns immediately; the job runs in a background goroutine.
func (j *SweepJob) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})
	j.mu.Unlock()

	go j.run(ctx)
	return nil
}

// Stop signals the sweep job to stop and waits for it to finish.
func (j *SweepJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	stopCh := j.stopCh
	doneCh := j.doneCh
	j.mu.Unlock()

	close(stopCh)
	<-doneCh

	j.mu.Lock()
	j.running = false
	j.mu.Unlock()
}

// IsRunning returns whether the job is currently running.
func (j *SweepJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// run is the main loop for the sweep job.
func (j *SweepJob) run(ctx context.Context) {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.config.Logger.Info("location sweep job stopping due to context cancellation")
			return
		case <-j.stopCh:
			j.config.Logger.Info("location sweep job stopping due to stop signal")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// sweep marks stale records offline.
func (j *SweepJob) sweep(parentCtx context.Context) {
	ctx, cancel := context.WithTimeout(parentCtx, j.config.Timeout)
	defer cancel()

	startTime := time.Now()
	cutoff := startTime.Add(-j.config.MaxAge).UTC()

	swept, err := j.store.MarkStaleOffline(ctx, cutoff)
	duration := time.Since(startTime).Seconds()

	if err != nil {
		j.config.Logger.Error("location sweep failed",
			"cutoff", cutoff,
			"error", err)
		if j.config.JobMetrics != nil {
			j.config.JobMetrics.IncJobErrors(sweepJobType, "store_error")
			j.config.JobMetrics.IncJobsTotal(sweepJobType, "failure")
			j.config.JobMetrics.ObserveJobDuration(sweepJobType, duration)
		}
		return
	}

	if j.config.JobMetrics != nil {
		j.config.JobMetrics.IncJobsTotal(sweepJobType, "success")
		j.config.JobMetrics.ObserveJobDuration(sweepJobType, duration)
	}

	if swept > 0 {
		j.config.Logger.Info("location sweep completed",
			"duration_seconds", duration,
			"marked_offline", swept,
			"cutoff", cutoff)
	} else {
		j.config.Logger.Debug("location sweep completed with nothing to do",
			"duration_seconds", duration)
	}
}

// SweepNow immediately runs a sweep cycle without waiting for the ticker.
// This is useful for testing or forcing immediate cleanup.
func (j *SweepJob) SweepNow() {
	j.sweep(context.Background())
}
