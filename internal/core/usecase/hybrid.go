package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

// Hybrid scores are a convex blend of two signals on [0,1], so the
// display normalization always uses that range and clamps the rest.
const (
	hybridScaleMin = 0.0
	hybridScaleMax = 1.0
)

// hybridSearch embeds the query, pulls fetchLimit candidates from the
// vector store and blends semantic similarity with keyword overlap:
//
//	hybrid = alpha*similarity + (1-alpha)*keyword
//
// Results come back ordered by hybrid score descending, ties keeping the
// store's original order. An empty candidate set returns an empty slice,
// not an error. Store failures propagate to the caller untouched; retry
// policy belongs to the store client.
func (uc *RetrieveUseCase) hybridSearch(
	ctx context.Context,
	query string,
	cfg domain.RetrievalConfig,
	filter domain.SearchFilter,
	fetchLimit int,
) ([]domain.RetrievalResult, []float32, error) {
	queryVec, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := uc.vectorDB.SimilaritySearch(ctx, queryVec, fetchLimit, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]domain.RetrievalResult, 0, len(candidates))
	for _, cand := range candidates {
		kw := keywordScoreWeighted(query, cand.Content, cand.Metadata, uc.tuning.CategoryBoost)
		hybrid := cfg.Alpha*cand.Similarity + (1-cfg.Alpha)*kw

		result := domain.RetrievalResult{
			ID:              cand.ID,
			DocumentID:      cand.DocumentID,
			ChunkIndex:      cand.ChunkIndex,
			Content:         cand.Content,
			Filename:        cand.Filename,
			Metadata:        cand.Metadata,
			RawSimilarity:   cand.Similarity,
			KeywordScore:    kw,
			HybridScore:     hybrid,
			NormalizedScore: normalizeScore(hybrid, hybridScaleMin, hybridScaleMax),
		}
		result.SetCandidateEmbedding(cand.Embedding)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].HybridScore > results[j].HybridScore
	})

	return results, queryVec, nil
}

func truncateResults(results []domain.RetrievalResult, limit int) []domain.RetrievalResult {
	if limit <= 0 || len(results) <= limit {
		return results
	}
	return results[:limit]
}
