package usecase

import (
	"context"
	"time"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/ports"
)

// RetrievalProfile is the intent-derived starting point for a
// RetrievalConfig. The numbers live in configuration, not code.
type RetrievalProfile struct {
	TopK       int
	Alpha      float64
	UseMMR     bool
	LambdaMult float64
}

// IntentProfiles maps each query intent to its retrieval profile.
type IntentProfiles map[domain.QueryIntent]RetrievalProfile

// DefaultIntentProfiles derives the standard mapping from a base top-k:
// facts stay precise, the other intents widen the pool and trade
// relevance for coverage or diversity.
func DefaultIntentProfiles(baseTopK int) IntentProfiles {
	if baseTopK <= 0 {
		baseTopK = 5
	}
	return IntentProfiles{
		domain.IntentFact:       {TopK: baseTopK, Alpha: 0.7, UseMMR: false},
		domain.IntentSummary:    {TopK: baseTopK * 2, Alpha: 0.8, UseMMR: true, LambdaMult: 0.3},
		domain.IntentComparison: {TopK: baseTopK * 2, Alpha: 0.6, UseMMR: true, LambdaMult: 0.5},
		domain.IntentList:       {TopK: baseTopK * 2, Alpha: 0.5, UseMMR: true, LambdaMult: 0.4},
	}
}

// Tuning collects the ranking constants that are deployment-tunable.
type Tuning struct {
	// CategoryBoost is added to the keyword score when a candidate's
	// category overlaps the query.
	CategoryBoost float64
	// CandidateMultiplier over-fetches the MMR candidate pool
	// (fetch = top_k * multiplier) so diversity has material to work with.
	CandidateMultiplier int
	// RerankTimeout bounds the optional LLM rerank pass.
	RerankTimeout time.Duration
	// RerankByDefault seeds UseReranker in intent-derived configs.
	// Per-request overrides win in both directions regardless.
	RerankByDefault bool
}

func (t Tuning) normalize() Tuning {
	out := t
	if out.CategoryBoost < 0 {
		out.CategoryBoost = 0
	}
	if out.CandidateMultiplier < 1 {
		out.CandidateMultiplier = 2
	}
	if out.RerankTimeout <= 0 {
		out.RerankTimeout = 10 * time.Second
	}
	return out
}

// RetrieveUseCase is the hybrid retrieval facade: intent classification,
// hybrid scoring, optional MMR diversity pass and optional LLM rerank.
type RetrieveUseCase struct {
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
	completer ports.CompletionProvider
	cues      domain.CueTable
	profiles  IntentProfiles
	tuning    Tuning

	onRerankFallback func()
}

func NewRetrieveUseCase(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	completer ports.CompletionProvider,
	cues domain.CueTable,
	profiles IntentProfiles,
	tuning Tuning,
) *RetrieveUseCase {
	if len(profiles) == 0 {
		profiles = DefaultIntentProfiles(0)
	}
	return &RetrieveUseCase{
		embedder:  embedder,
		vectorDB:  vectorDB,
		completer: completer,
		cues:      cues,
		profiles:  profiles,
		tuning:    tuning.normalize(),
	}
}

// SetRerankFallbackHook registers a callback fired whenever the LLM
// rerank pass falls back to the pre-rerank order. Used for metrics.
func (uc *RetrieveUseCase) SetRerankFallbackHook(fn func()) {
	uc.onRerankFallback = fn
}

// ClassifyIntent maps a raw query to its coarse intent via the cue table.
func (uc *RetrieveUseCase) ClassifyIntent(query string) domain.QueryIntent {
	return uc.cues.Classify(query)
}

// ConfigForIntent builds the intent-derived default config. Callers apply
// their own overrides on top; overrides always win.
func (uc *RetrieveUseCase) ConfigForIntent(intent domain.QueryIntent) domain.RetrievalConfig {
	profile, ok := uc.profiles[intent]
	if !ok {
		profile = uc.profiles[domain.IntentFact]
	}
	return domain.NewRetrievalConfig(profile.TopK, profile.Alpha, profile.UseMMR, profile.LambdaMult, uc.tuning.RerankByDefault)
}

// Retrieve runs one retrieval call. Without MMR it is plain
// top-k-by-hybrid-score. With MMR it over-fetches, hybrid-scores the pool
// and re-orders the whole pool by marginal relevance against the query's
// own embedding. The LLM rerank pass, when enabled, is best-effort and
// can only reorder, never fail the call.
func (uc *RetrieveUseCase) Retrieve(
	ctx context.Context,
	query string,
	cfg domain.RetrievalConfig,
	filter domain.SearchFilter,
) ([]domain.RetrievalResult, error) {
	if cfg.TopK <= 0 {
		cfg = domain.NewRetrievalConfig(cfg.TopK, cfg.Alpha, cfg.UseMMR, cfg.LambdaMult, cfg.UseReranker)
	}

	var results []domain.RetrievalResult
	if !cfg.UseMMR {
		ranked, _, err := uc.hybridSearch(ctx, query, cfg, filter, cfg.TopK)
		if err != nil {
			return nil, err
		}
		results = truncateResults(ranked, cfg.TopK)
	} else {
		fetch := cfg.TopK * uc.tuning.CandidateMultiplier
		ranked, queryVec, err := uc.hybridSearch(ctx, query, cfg, filter, fetch)
		if err != nil {
			return nil, err
		}
		results = mmrRerank(queryVec, ranked, cfg.TopK, cfg.LambdaMult)
	}

	if cfg.UseReranker && uc.completer != nil {
		results = uc.rerankWithLLM(ctx, query, results, cfg.TopK)
	}
	return results, nil
}
