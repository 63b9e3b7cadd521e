package usecase

import (
	"testing"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

func mmrCandidate(id string, embedding []float32) domain.RetrievalResult {
	r := domain.RetrievalResult{ID: id}
	r.SetCandidateEmbedding(embedding)
	return r
}

// Two near-identical highly relevant candidates plus one distinct,
// moderately relevant one: a diversity-favoring lambda must pick the
// distinct candidate second instead of the near-duplicate.
func TestMMRRerankPrefersDiversityAtLowLambda(t *testing.T) {
	query := []float32{1, 0}
	candidates := []domain.RetrievalResult{
		mmrCandidate("dup-a", []float32{0.99, 0.05}),
		mmrCandidate("dup-b", []float32{0.98, 0.06}),
		mmrCandidate("distinct", []float32{0.5, 0.8}),
	}

	out := mmrRerank(query, candidates, 2, 0.3)
	if len(out) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(out))
	}
	if out[0].ID != "dup-a" {
		t.Fatalf("first pick must be pure relevance, got %s", out[0].ID)
	}
	if out[1].ID != "distinct" {
		t.Fatalf("expected diverse second pick, got %s", out[1].ID)
	}
}

// A candidate pointing away from everything selected has a negative max
// similarity, which must act as a bonus rather than being floored at 0.
func TestMMRRerankNegativeSimilarityIsABonus(t *testing.T) {
	query := []float32{0, 1}
	candidates := []domain.RetrievalResult{
		mmrCandidate("aligned", []float32{0, 1}),
		mmrCandidate("opposed", []float32{0.8, -0.6}),
		mmrCandidate("orthogonal", []float32{1, 0}),
	}

	// score(opposed)   = 0.3*(-0.6) - 0.7*(-0.6) = 0.24
	// score(orthogonal) = 0.3*0 - 0.7*0 = 0
	out := mmrRerank(query, candidates, 2, 0.3)
	if out[0].ID != "aligned" {
		t.Fatalf("first pick must be pure relevance, got %s", out[0].ID)
	}
	if out[1].ID != "opposed" {
		t.Fatalf("expected the opposed candidate's negative penalty to win, got %s", out[1].ID)
	}
}

func TestMMRRerankLambdaOneIsRelevanceOrder(t *testing.T) {
	query := []float32{1, 0}
	candidates := []domain.RetrievalResult{
		mmrCandidate("mid", []float32{0.7, 0.7}),
		mmrCandidate("best", []float32{1, 0}),
		mmrCandidate("worst", []float32{0, 1}),
	}

	out := mmrRerank(query, candidates, 3, 1.0)
	want := []string{"best", "mid", "worst"}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, out[i].ID, id)
		}
	}
}

func TestMMRRerankKExceedsPool(t *testing.T) {
	query := []float32{1, 0}
	candidates := []domain.RetrievalResult{
		mmrCandidate("a", []float32{1, 0}),
		mmrCandidate("b", []float32{0, 1}),
	}
	out := mmrRerank(query, candidates, 10, 0.5)
	if len(out) != 2 {
		t.Fatalf("expected all candidates returned, got %d", len(out))
	}
}

func TestMMRRerankEmptyInput(t *testing.T) {
	if out := mmrRerank([]float32{1}, nil, 3, 0.5); len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
