package health

import (
	"context"
	"errors"
	"testing"
)

type stubChecker struct {
	err error
}

func (s stubChecker) HealthCheck(ctx context.Context) error {
	return s.err
}

func TestCheckAll(t *testing.T) {
	boom := errors.New("connection refused")
	results := CheckAll(context.Background(), map[string]Checker{
		"database": stubChecker{},
		"redis":    stubChecker{err: boom},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["database"] != nil {
		t.Errorf("expected database healthy, got %v", results["database"])
	}
	if !errors.Is(results["redis"], boom) {
		t.Errorf("expected redis error, got %v", results["redis"])
	}
}

func TestCheckAll_Empty(t *testing.T) {
	results := CheckAll(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected empty results, got %v", results)
	}
}
