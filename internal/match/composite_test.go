package match

import (
	"math"
	"testing"
)

// TestCompositeScoreWeighting verifies the weighted combination of sub-scores.
func TestCompositeScoreWeighting(t *testing.T) {
	tests := []struct {
		name       string
		sub        SubScores
		hasApplied bool
		expected   float64
	}{
		{
			name:     "all perfect",
			sub:      SubScores{Location: 100, Skills: 100, Availability: 100, Rating: 100},
			expected: 100,
		},
		{
			name:     "all zero",
			sub:      SubScores{},
			expected: 0,
		},
		{
			name:     "mixed",
			sub:      SubScores{Location: 100, Skills: 55, Availability: 100, Rating: 90},
			expected: 100*0.3 + 55*0.4 + 100*0.2 + 90*0.1,
		},
		{
			name:       "applied penalty applied",
			sub:        SubScores{Location: 100, Skills: 100, Availability: 100, Rating: 100},
			hasApplied: true,
			expected:   80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompositeScore(tt.sub, tt.hasApplied, nil)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("CompositeScore(%+v, %v) = %f, want %f", tt.sub, tt.hasApplied, got, tt.expected)
			}
		})
	}
}

// TestCompositeScoreBounds verifies the composite stays in [0, 100] even for
// out-of-range sub-scores.
func TestCompositeScoreBounds(t *testing.T) {
	extremes := []SubScores{
		{Location: 1000, Skills: 1000, Availability: 1000, Rating: 1000},
		{Location: -50, Skills: -50, Availability: -50, Rating: -50},
		{Location: 100, Skills: -100, Availability: 100, Rating: -100},
	}

	for _, sub := range extremes {
		for _, applied := range []bool{false, true} {
			got := CompositeScore(sub, applied, nil)
			if got < MinScore || got > MaxScore {
				t.Errorf("CompositeScore(%+v, %v) = %f out of [0, 100]", sub, applied, got)
			}
		}
	}
}

// TestCompositeScoreAppliedPenaltyMonotone verifies that hasApplied never
// increases the score, and strictly decreases it for positive scores.
func TestCompositeScoreAppliedPenaltyMonotone(t *testing.T) {
	subs := []SubScores{
		{},
		{Location: 10, Skills: 10, Availability: 100, Rating: 50},
		{Location: 100, Skills: 100, Availability: 100, Rating: 100},
		{Location: 40, Skills: 55, Availability: 50, Rating: 90},
	}

	for _, sub := range subs {
		fresh := CompositeScore(sub, false, nil)
		applied := CompositeScore(sub, true, nil)

		if applied > fresh {
			t.Errorf("applied penalty increased score: %f > %f for %+v", applied, fresh, sub)
		}
		if fresh > 0 && applied >= fresh {
			t.Errorf("applied penalty did not strictly decrease positive score %f for %+v", fresh, sub)
		}
	}
}

// TestCompositeScoreDeterministic verifies repeated calls with identical
// inputs yield identical results.
func TestCompositeScoreDeterministic(t *testing.T) {
	sub := SubScores{Location: 70, Skills: 55, Availability: 50, Rating: 90}
	w := DefaultWeights()

	first := CompositeScore(sub, true, w)
	for i := 0; i < 100; i++ {
		if got := CompositeScore(sub, true, w); got != first {
			t.Fatalf("non-deterministic score: %f != %f", got, first)
		}
	}
}

// TestCompositeScoreCustomWeights verifies calibrated weights are honored.
func TestCompositeScoreCustomWeights(t *testing.T) {
	w := &Weights{Location: 1.0, Skills: 0, Availability: 0, Rating: 0, AppliedPenalty: 0.5}
	sub := SubScores{Location: 80, Skills: 100, Availability: 100, Rating: 100}

	if got := CompositeScore(sub, false, w); math.Abs(got-80) > 0.001 {
		t.Errorf("expected 80 with location-only weights, got %f", got)
	}
	if got := CompositeScore(sub, true, w); math.Abs(got-40) > 0.001 {
		t.Errorf("expected 40 with 0.5 penalty, got %f", got)
	}
}
