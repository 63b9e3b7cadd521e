package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

const rerankSnippetRunes = 400

// rerankOrder is the parsed outcome of an LLM rerank call. ok is false
// whenever the call failed or the response was not a valid permutation;
// the fallback to input order is an ordinary branch on it, not an error
// path.
type rerankOrder struct {
	indices []int
	ok      bool
}

// rerankWithLLM asks the completion provider to reorder results by
// relevance. It is a best-effort enhancement: any provider error,
// timeout or unparseable response returns the original order truncated
// to topK. Errors never propagate to the caller.
func (uc *RetrieveUseCase) rerankWithLLM(
	ctx context.Context,
	query string,
	results []domain.RetrievalResult,
	topK int,
) []domain.RetrievalResult {
	if len(results) == 0 {
		return results
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.tuning.RerankTimeout)
	defer cancel()

	order := rerankOrder{}
	response, err := uc.completer.Complete(callCtx, buildRerankPrompt(query, results))
	if err == nil {
		order = parseRerankOrder(response, len(results))
	} else {
		slog.Warn("llm_rerank_failed", "error", err)
	}

	if !order.ok {
		if uc.onRerankFallback != nil {
			uc.onRerankFallback()
		}
		return truncateResults(results, topK)
	}

	reordered := make([]domain.RetrievalResult, 0, len(results))
	for _, idx := range order.indices {
		reordered = append(reordered, results[idx])
	}
	return truncateResults(reordered, topK)
}

func buildRerankPrompt(query string, results []domain.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Rank the passages below by relevance to the question, most relevant first.\n\n")
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nPassages:\n")
	for i, result := range results {
		b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, truncateRunes(result.Content, rerankSnippetRunes)))
	}
	b.WriteString(fmt.Sprintf(
		"\nAnswer with the passage numbers in ranked order as a comma-separated list, e.g. 2,1,3. Use every number from 1 to %d exactly once. No other text.\n",
		len(results),
	))
	return b.String()
}

// parseRerankOrder accepts the response only when it names every passage
// exactly once; anything else falls back to the incoming order.
func parseRerankOrder(response string, n int) rerankOrder {
	fields := strings.FieldsFunc(response, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if len(fields) != n {
		return rerankOrder{}
	}

	seen := make(map[int]bool, n)
	indices := make([]int, 0, n)
	for _, field := range fields {
		pos, err := strconv.Atoi(field)
		if err != nil || pos < 1 || pos > n || seen[pos] {
			return rerankOrder{}
		}
		seen[pos] = true
		indices = append(indices, pos-1)
	}
	return rerankOrder{indices: indices, ok: true}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
