package match

// SubScores holds the four component scores for a listing/candidate pairing,
// each on the 0-100 scale.
type SubScores struct {
	Location     float64 `json:"location"`
	Skills       float64 `json:"skills"`
	Availability float64 `json:"availability"`
	Rating       float64 `json:"rating"`
}

// CompositeScore combines the sub-scores using the configured weights and
// applies the already-applied penalty when hasApplied is true. The result is
// clamped to [0, 100] and is deterministic for identical inputs.
func CompositeScore(sub SubScores, hasApplied bool, weights *Weights) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}

	score := clamp(sub.Location)*weights.Location +
		clamp(sub.Skills)*weights.Skills +
		clamp(sub.Availability)*weights.Availability +
		clamp(sub.Rating)*weights.Rating

	if hasApplied {
		score *= weights.AppliedPenalty
	}

	return clamp(score)
}
