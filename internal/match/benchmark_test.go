package match

import "testing"

// BenchmarkLocationScore benchmarks the free-text location comparison.
func BenchmarkLocationScore(b *testing.B) {
	for i := 0; i < b.N; i++ {
		LocationScore("123 Main St, Brooklyn, NY", "Brooklyn Heights, NY")
	}
}

// BenchmarkSkillsScore benchmarks skills keyword matching.
func BenchmarkSkillsScore(b *testing.B) {
	for i := 0; i < b.N; i++ {
		SkillsScore("Senior Web Developer", "Experience with python and django required", "python,django,sql,react")
	}
}

// BenchmarkRatingScore benchmarks the rating mapping.
func BenchmarkRatingScore(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RatingScore(4.5)
	}
}

// BenchmarkCompositeScore benchmarks the full weighted combination.
func BenchmarkCompositeScore(b *testing.B) {
	sub := SubScores{Location: 70, Skills: 55, Availability: 50, Rating: 90}
	weights := DefaultWeights()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CompositeScore(sub, true, weights)
	}
}
