package match

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Weights defines the relative contribution of each sub-score to the
// composite match score, plus the penalty multiplier for already-applied
// candidates.
type Weights struct {
	Location     float64 `json:"location"`     // Weight for location affinity (default: 0.3)
	Skills       float64 `json:"skills"`       // Weight for skills affinity (default: 0.4)
	Availability float64 `json:"availability"` // Weight for same-day availability (default: 0.2)
	Rating       float64 `json:"rating"`       // Weight for candidate reputation (default: 0.1)

	// AppliedPenalty multiplies the composite when the candidate already
	// has an application for the listing (default: 0.8). Already-applied
	// candidates are deprioritized but never excluded, so callers can still
	// surface "jobs you applied to" with a score attached.
	AppliedPenalty float64 `json:"applied_penalty"`
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configurations
}

// DefaultWeights returns the default weight configuration.
//
// Composite formula: location*0.3 + skills*0.4 + availability*0.2 + rating*0.1,
// each sub-score pre-scaled to [0, 100]. Skills dominate because they are the
// strongest predictor of a successful placement; rating is kept small so a
// few bad reviews cannot bury an otherwise good match.
func DefaultWeights() *Weights {
	return &Weights{
		Location:       0.3,
		Skills:         0.4,
		Availability:   0.2,
		Rating:         0.1,
		AppliedPenalty: 0.8,
	}
}

// LoadCalibration loads match weights from a JSON calibration file.
// Partial configurations are merged with defaults for graceful degradation,
// and on any error the defaults are returned alongside the error so callers
// can keep serving.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights with base weights. Only non-zero
// values from the override are applied, which allows partial overrides in
// the calibration file.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.Location != 0 {
		result.Location = override.Location
	}
	if override.Skills != 0 {
		result.Skills = override.Skills
	}
	if override.Availability != 0 {
		result.Availability = override.Availability
	}
	if override.Rating != 0 {
		result.Rating = override.Rating
	}
	if override.AppliedPenalty != 0 {
		result.AppliedPenalty = override.AppliedPenalty
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	if loaded.Location != defaults.Location {
		overrides = append(overrides, fmt.Sprintf("location: %.2f -> %.2f",
			defaults.Location, loaded.Location))
	}
	if loaded.Skills != defaults.Skills {
		overrides = append(overrides, fmt.Sprintf("skills: %.2f -> %.2f",
			defaults.Skills, loaded.Skills))
	}
	if loaded.Availability != defaults.Availability {
		overrides = append(overrides, fmt.Sprintf("availability: %.2f -> %.2f",
			defaults.Availability, loaded.Availability))
	}
	if loaded.Rating != defaults.Rating {
		overrides = append(overrides, fmt.Sprintf("rating: %.2f -> %.2f",
			defaults.Rating, loaded.Rating))
	}
	if loaded.AppliedPenalty != defaults.AppliedPenalty {
		overrides = append(overrides, fmt.Sprintf("applied_penalty: %.2f -> %.2f",
			defaults.AppliedPenalty, loaded.AppliedPenalty))
	}

	if len(overrides) > 0 {
		slog.Info("loaded match calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded match calibration (using all defaults)")
	}
}
