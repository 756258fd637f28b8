package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testDay = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusPending, true},
		{StatusApplied, true},
		{StatusAccepted, true},
		{StatusRejected, true},
		{StatusOngoing, true},
		{StatusWithdrawn, true},
		{Status("unknown"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.expected {
				t.Errorf("Valid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatusCountsAsCommitment(t *testing.T) {
	commitments := map[Status]bool{
		StatusPending:   true,
		StatusAccepted:  true,
		StatusApplied:   false,
		StatusRejected:  false,
		StatusOngoing:   false,
		StatusWithdrawn: false,
	}

	for status, expected := range commitments {
		if got := status.CountsAsCommitment(); got != expected {
			t.Errorf("%s.CountsAsCommitment() = %v, want %v", status, got, expected)
		}
	}
}

func TestInMemoryRepositoryCreateAndHasApplied(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	a := &Application{ProfileID: "p1", ListingID: "l1", Status: StatusApplied, Date: testDay}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	applied, err := repo.HasApplied(ctx, "p1", "l1")
	if err != nil {
		t.Fatalf("HasApplied failed: %v", err)
	}
	if !applied {
		t.Error("expected HasApplied to be true")
	}

	applied, err = repo.HasApplied(ctx, "p1", "other")
	if err != nil {
		t.Fatalf("HasApplied failed: %v", err)
	}
	if applied {
		t.Error("expected HasApplied to be false for other listing")
	}
}

func TestInMemoryRepositoryRejectsDuplicate(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first := &Application{ProfileID: "p1", ListingID: "l1", Status: StatusApplied, Date: testDay}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dup := &Application{ProfileID: "p1", ListingID: "l1", Status: StatusPending, Date: testDay}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateApplication) {
		t.Errorf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestInMemoryRepositoryCountSameDay(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	seed := []*Application{
		{ProfileID: "p1", ListingID: "l1", Status: StatusAccepted, Date: testDay},
		{ProfileID: "p1", ListingID: "l2", Status: StatusPending, Date: testDay.Add(4 * time.Hour)},
		{ProfileID: "p1", ListingID: "l3", Status: StatusRejected, Date: testDay},
		{ProfileID: "p1", ListingID: "l4", Status: StatusAccepted, Date: testDay.AddDate(0, 0, 1)},
		{ProfileID: "p2", ListingID: "l1", Status: StatusAccepted, Date: testDay},
	}
	for _, a := range seed {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Accepted l1 and pending l2 count; rejected, next-day, and other
	// candidates do not.
	count, err := repo.CountSameDay(ctx, "p1", testDay)
	if err != nil {
		t.Fatalf("CountSameDay failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 same-day commitments, got %d", count)
	}
}

func TestInMemoryRepositoryUpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	a := &Application{ProfileID: "p1", ListingID: "l1", Status: StatusApplied, Date: testDay}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdateStatus(ctx, a.ID, StatusAccepted); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	count, err := repo.CountSameDay(ctx, "p1", testDay)
	if err != nil {
		t.Fatalf("CountSameDay failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected accepted application to count as commitment, got %d", count)
	}

	if err := repo.UpdateStatus(ctx, "missing", StatusAccepted); !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("expected ErrApplicationNotFound, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, a.ID, Status("bogus")); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}
