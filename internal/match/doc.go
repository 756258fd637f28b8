// Package match provides composite match scoring between job listings and
// candidate profiles, with calibration support for deploy-time weight tuning.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	weights, err := match.LoadCalibration("configs/match.calibration.json")
//	if err != nil {
//		slog.Warn("using default weights", "error", err)
//	}
//
//	engine := match.NewEngine(match.EngineConfig{
//		Weights: weights,
//		Logger:  logger,
//		Metrics: metrics,
//	}, listings, profiles, applications)
//
//	// Rank a candidate pool against one listing
//	applicants := engine.RankApplicantsForJob(ctx, listingID, poolIDs, 10)
//
//	// Rank active listings for one candidate
//	jobs := engine.RankJobsForApplicant(ctx, profileID, nil, 10)
//
// Sub-score Functions:
//
// LocationScore, SkillsScore, AvailabilityScore, and RatingScore each return
// values on the [0, 100] scale and are pure functions of their inputs. Use
// them directly when the repository-backed Engine is more than you need.
//
// Calibration:
//
// The calibration system allows deploy-time tuning of the composite weights
// and the applied-candidate penalty via a JSON file loaded at startup.
// Partial files merge with defaults; a missing or malformed file degrades to
// defaults so ranking keeps serving.
package match
