// Package stats provides utilities for tracking upsert operation statistics.
package stats

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// UpsertStats tracks cumulative statistics for upsert operations.
// All operations are thread-safe using atomic counters.
//
// A refresh is an update that changed nothing but the timestamp, which is
// the common case for candidates re-reporting the same coordinates.
type UpsertStats struct {
	inserted  int64 // Total records inserted
	updated   int64 // Total records updated with new values
	refreshed int64 // Total timestamp-only refreshes
}

// NewUpsertStats creates a new UpsertStats instance.
func NewUpsertStats() *UpsertStats {
	return &UpsertStats{}
}

// RecordInsert increments the inserted counter.
func (s *UpsertStats) RecordInsert() {
	atomic.AddInt64(&s.inserted, 1)
}

// RecordUpdate increments the updated counter.
func (s *UpsertStats) RecordUpdate() {
	atomic.AddInt64(&s.updated, 1)
}

// RecordRefresh increments the refreshed counter.
func (s *UpsertStats) RecordRefresh() {
	atomic.AddInt64(&s.refreshed, 1)
}

// Inserted returns the total number of inserts.
func (s *UpsertStats) Inserted() int64 {
	return atomic.LoadInt64(&s.inserted)
}

// Updated returns the total number of value-changing updates.
func (s *UpsertStats) Updated() int64 {
	return atomic.LoadInt64(&s.updated)
}

// Refreshed returns the total number of timestamp-only refreshes.
func (s *UpsertStats) Refreshed() int64 {
	return atomic.LoadInt64(&s.refreshed)
}

// Total returns the total number of upsert operations.
func (s *UpsertStats) Total() int64 {
	return s.Inserted() + s.Updated() + s.Refreshed()
}

// Reset resets all counters to zero.
func (s *UpsertStats) Reset() {
	atomic.StoreInt64(&s.inserted, 0)
	atomic.StoreInt64(&s.updated, 0)
	atomic.StoreInt64(&s.refreshed, 0)
}

// String returns a human-readable summary of the statistics.
func (s *UpsertStats) String() string {
	return fmt.Sprintf("inserted=%d updated=%d refreshed=%d total=%d",
		s.Inserted(), s.Updated(), s.Refreshed(), s.Total())
}

// LogSummary logs a summary of upsert statistics at INFO level.
// Useful for periodic reporting.
func (s *UpsertStats) LogSummary(logger *slog.Logger, entity string) {
	logger.Info("upsert statistics",
		"entity", entity,
		"inserted", s.Inserted(),
		"updated", s.Updated(),
		"refreshed", s.Refreshed(),
		"total", s.Total(),
	)
}
