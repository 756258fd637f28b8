// Package health provides health check implementations for external dependencies.
package health

import (
	"context"
	"time"
)

// Checker reports whether one external dependency is reachable.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// DefaultCheckTimeout bounds a single dependency check.
const DefaultCheckTimeout = 2 * time.Second

// CheckAll runs every named checker under a shared timeout and returns a
// map of dependency name to error (nil when healthy).
func CheckAll(ctx context.Context, checkers map[string]Checker) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, DefaultCheckTimeout)
	defer cancel()

	results := make(map[string]error, len(checkers))
	for name, c := range checkers {
		results[name] = c.HealthCheck(ctx)
	}
	return results
}
