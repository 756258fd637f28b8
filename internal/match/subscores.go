package match

import (
	"strings"
)

// Sub-score bounds. Every sub-score is expressed on a 0-100 scale before
// weighting so that the composite stays in [0, 100].
const (
	MinScore = 0.0
	MaxScore = 100.0

	// BaseLocationScore is returned when either location string is missing
	// or no token overlap is found. It is deliberately permissive: an
	// unknown location must not starve the matcher of candidates.
	BaseLocationScore = 10.0

	// BaseSkillsScore is the floor for candidates with no listed skills or
	// listings with no title.
	BaseSkillsScore = 10.0

	// NeutralRatingScore is the default for unrated candidates, so new
	// candidates are not penalized against established ones.
	NeutralRatingScore = 50.0

	// RatingMultiplier maps a 0-5 rating onto the 0-100 scale.
	RatingMultiplier = 20.0
)

// locationTokenSeparators splits free-text addresses for token overlap
// comparison.
func locationTokenSeparators(r rune) bool {
	return r == ' ' || r == ',' || r == '\t'
}

// LocationScore compares two free-text address strings and returns one of
// {10, 40, 70, 100}:
//
//	100 - case-insensitive exact match
//	 70 - one string contains the other
//	 40 - the strings share at least one token
//	 10 - either string missing, or no overlap at all
//
// This is intentionally soft. Exact geocoding lives in the geomatch package;
// this sub-score only has the address text to work with.
func LocationScore(jobLocation, candidateLocation string) float64 {
	job := strings.ToLower(strings.TrimSpace(jobLocation))
	cand := strings.ToLower(strings.TrimSpace(candidateLocation))

	if job == "" || cand == "" {
		return BaseLocationScore
	}

	if job == cand {
		return 100.0
	}

	if strings.Contains(job, cand) || strings.Contains(cand, job) {
		return 70.0
	}

	jobTokens := strings.FieldsFunc(job, locationTokenSeparators)
	candTokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(cand, locationTokenSeparators) {
		candTokens[tok] = true
	}
	for _, tok := range jobTokens {
		if candTokens[tok] {
			return 40.0
		}
	}

	return BaseLocationScore
}

// SkillsScore measures how well a candidate's comma-separated skills string
// covers the keywords of a listing's title and description.
//
// Each candidate skill counts as matched if it appears as a substring of any
// job keyword, or any job keyword appears as a substring of it. The score is
// 10 + (matched/total)*90 capped at 100, with a floor of 10 when the
// candidate lists no skills or the listing has no title.
func SkillsScore(jobTitle, jobDescription, candidateSkills string) float64 {
	skills := splitSkills(candidateSkills)
	if len(skills) == 0 || strings.TrimSpace(jobTitle) == "" {
		return BaseSkillsScore
	}

	keywords := strings.Fields(strings.ToLower(jobTitle))
	if jobDescription != "" {
		keywords = append(keywords, strings.Fields(strings.ToLower(jobDescription))...)
	}

	matched := 0
	for _, skill := range skills {
		for _, kw := range keywords {
			if strings.Contains(kw, skill) || strings.Contains(skill, kw) {
				matched++
				break
			}
		}
	}

	score := BaseSkillsScore + (float64(matched)/float64(len(skills)))*90.0
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// splitSkills normalizes a comma-separated skills string into lowercase
// trimmed tokens, dropping empties.
func splitSkills(skills string) []string {
	if skills == "" {
		return nil
	}
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToLower(strings.TrimSpace(p))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AvailabilityScore models a soft capacity constraint from the candidate's
// accepted or pending applications on the listing's date:
//
//	0 commitments -> 100
//	1 commitment  ->  50
//	2 or more     ->   0
//
// The commitment count is supplied by the caller; the scorer holds no state.
func AvailabilityScore(sameDayCommitments int) float64 {
	switch {
	case sameDayCommitments <= 0:
		return 100.0
	case sameDayCommitments == 1:
		return 50.0
	default:
		return 0.0
	}
}

// RatingScore maps a candidate rating in [0, 5] onto the 0-100 scale.
// An absent or zero rating yields the neutral default of 50; otherwise the
// rating is multiplied by 20 and capped at 100.
func RatingScore(rating float64) float64 {
	if rating <= 0 {
		return NeutralRatingScore
	}
	score := rating * RatingMultiplier
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// clamp bounds a score to [MinScore, MaxScore].
func clamp(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
