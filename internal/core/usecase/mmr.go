package usecase

import (
	"math"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

// mmrRerank applies Maximal Marginal Relevance: greedily pick the
// candidate maximizing
//
//	lambda*sim(candidate, query) - (1-lambda)*max sim(candidate, selected)
//
// until k candidates are selected or the pool is exhausted. The first
// pick is pure relevance. lambda = 1.0 degenerates to relevance-only
// ranking; lower values actively avoid near-duplicates. Ties keep input
// order, so identical inputs always produce identical output.
func mmrRerank(queryVec []float32, candidates []domain.RetrievalResult, k int, lambda float64) []domain.RetrievalResult {
	if len(candidates) == 0 || k <= 0 {
		return []domain.RetrievalResult{}
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	relevance := make([]float64, len(candidates))
	for i := range candidates {
		relevance[i] = cosineSimilarity(candidates[i].CandidateEmbedding(), queryVec)
	}

	selected := make([]domain.RetrievalResult, 0, k)
	selectedIdx := make([]int, 0, k)
	used := make([]bool, len(candidates))

	for len(selected) < k {
		best := -1
		bestScore := 0.0
		for i := range candidates {
			if used[i] {
				continue
			}
			// The penalty is the literal max over selected items, so a
			// candidate pointing away from everything picked so far gets a
			// negative penalty and the diversity term rewards it.
			penalty := math.Inf(-1)
			for _, j := range selectedIdx {
				sim := cosineSimilarity(candidates[i].CandidateEmbedding(), candidates[j].CandidateEmbedding())
				if sim > penalty {
					penalty = sim
				}
			}
			if len(selectedIdx) == 0 {
				penalty = 0
			}
			score := lambda*relevance[i] - (1-lambda)*penalty
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		selectedIdx = append(selectedIdx, best)
		selected = append(selected, candidates[best])
	}
	return selected
}
