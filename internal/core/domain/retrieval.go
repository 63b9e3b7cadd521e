package domain

// SearchFilter narrows vector search to a knowledge category.
type SearchFilter struct {
	Category string
}

// ChunkCandidate is a raw vector store hit before hybrid scoring.
// Similarity is the cosine score exactly as the store returned it.
// Embedding is populated so diversity reranking can compare candidates
// to each other without another store round-trip.
type ChunkCandidate struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Content    string         `json:"content"`
	Filename   string         `json:"filename,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Similarity float64        `json:"similarity"`
	Embedding  []float32      `json:"-"`
}

// RetrievalResult is one scored candidate handed to the chat layer.
//
// HybridScore = alpha*RawSimilarity + (1-alpha)*KeywordScore.
// NormalizedScore rescales HybridScore from [0,1] to [0,100], clamped,
// for human-readable relevance display.
type RetrievalResult struct {
	ID              string         `json:"id"`
	DocumentID      string         `json:"document_id"`
	ChunkIndex      int            `json:"chunk_index"`
	Content         string         `json:"content"`
	Filename        string         `json:"filename,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	RawSimilarity   float64        `json:"raw_similarity"`
	KeywordScore    float64        `json:"keyword_score"`
	HybridScore     float64        `json:"hybrid_score"`
	NormalizedScore float64        `json:"normalized_score"`

	embedding []float32
}

// CandidateEmbedding exposes the embedding captured at search time.
func (r *RetrievalResult) CandidateEmbedding() []float32 { return r.embedding }

func (r *RetrievalResult) SetCandidateEmbedding(v []float32) { r.embedding = v }

// RetrievalConfig controls one retrieval call.
//
// Alpha weighs semantic similarity against keyword overlap: 1.0 is pure
// semantic, 0.0 pure keyword. LambdaMult is the MMR relevance/diversity
// trade-off and only matters when UseMMR is set.
type RetrievalConfig struct {
	TopK        int     `json:"top_k"`
	Alpha       float64 `json:"alpha"`
	UseMMR      bool    `json:"use_mmr"`
	LambdaMult  float64 `json:"lambda_mult"`
	UseReranker bool    `json:"use_reranker"`
}

// NewRetrievalConfig clamps Alpha and LambdaMult into [0,1] and forces a
// positive TopK. Out-of-range values are clamped rather than rejected so a
// sloppy caller still gets a well-formed retrieval.
func NewRetrievalConfig(topK int, alpha float64, useMMR bool, lambdaMult float64, useReranker bool) RetrievalConfig {
	if topK <= 0 {
		topK = 5
	}
	return RetrievalConfig{
		TopK:        topK,
		Alpha:       clamp01(alpha),
		UseMMR:      useMMR,
		LambdaMult:  clamp01(lambdaMult),
		UseReranker: useReranker,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
