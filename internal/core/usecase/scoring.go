package usecase

import "math"

// normalizeScore linearly rescales value from [minVal, maxVal] onto a
// 0-100 display scale. Values outside the input range are clamped, never
// extrapolated. A degenerate range (minVal == maxVal) returns the
// midpoint 50.0 instead of dividing by zero.
func normalizeScore(value, minVal, maxVal float64) float64 {
	if minVal == maxVal {
		return 50.0
	}
	scaled := 100 * (value - minVal) / (maxVal - minVal)
	if scaled < 0 {
		return 0
	}
	if scaled > 100 {
		return 100
	}
	return scaled
}

// cosineSimilarity computes dot-product-over-norms similarity. Vectors of
// different length and zero-norm vectors score 0.0 rather than erroring:
// embedding sources are heterogeneous enough that a defensive default
// beats a panic deep inside ranking.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
