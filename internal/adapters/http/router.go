package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kittipatc/opsdesk/internal/config"
	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/ports"
	"github.com/kittipatc/opsdesk/internal/core/usecase"
	"github.com/kittipatc/opsdesk/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg       config.Config
	ingestor  ports.DocumentIngestor
	chat      ports.ChatService
	retriever ports.Retriever
	documents ports.DocumentRepository
	dashboard *usecase.DashboardUseCase
	metrics   *metrics.HTTPServerMetrics
}

type Deps struct {
	Ingestor  ports.DocumentIngestor
	Chat      ports.ChatService
	Retriever ports.Retriever
	Documents ports.DocumentRepository
	Dashboard *usecase.DashboardUseCase
	Metrics   *metrics.HTTPServerMetrics
}

func NewRouter(cfg config.Config, deps Deps) *Router {
	return &Router{
		cfg:       cfg,
		ingestor:  deps.Ingestor,
		chat:      deps.Chat,
		retriever: deps.Retriever,
		documents: deps.Documents,
		dashboard: deps.Dashboard,
		metrics:   deps.Metrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/alerts", rt.alerts)
	mux.HandleFunc("/v1/alerts/", rt.alertByID)
	mux.HandleFunc("/v1/cases", rt.cases)
	mux.HandleFunc("/v1/cases/", rt.caseByID)
	mux.HandleFunc("/v1/feed", rt.feed)
	mux.HandleFunc("/v1/chat", rt.chatHandler)
	mux.HandleFunc("/v1/chat/history", rt.chatHistory)
	mux.HandleFunc("/v1/retrieve", rt.retrieveHandler)

	handler := http.Handler(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = backpressureMiddleware(handler, rt.cfg.HTTPMaxInFlight, 100*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.HTTPRateLimitPerSecond, rt.cfg.HTTPRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	doc, err := rt.documents.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	start := time.Now()
	answer, err := rt.chat.Chat(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(serviceName, "chat", string(answer.Intent), len(answer.Sources), time.Since(start))
	}

	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) chatHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	query := r.URL.Query()
	limit := rt.cfg.ChatHistoryLimitMessages
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}

	messages, err := rt.chat.History(r.Context(), query.Get("user_id"), query.Get("conversation_id"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

type retrieveRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`

	TopK        *int     `json:"top_k,omitempty"`
	Alpha       *float64 `json:"alpha,omitempty"`
	UseMMR      *bool    `json:"use_mmr,omitempty"`
	LambdaMult  *float64 `json:"lambda_mult,omitempty"`
	UseReranker *bool    `json:"use_reranker,omitempty"`
}

type retrieveResponse struct {
	Intent  domain.QueryIntent       `json:"intent"`
	Config  domain.RetrievalConfig   `json:"config"`
	Results []domain.RetrievalResult `json:"results"`
}

// retrieveHandler exposes the retrieval pipeline without answer
// generation, for relevance debugging from the dashboard.
func (rt *Router) retrieveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	intent := rt.retriever.ClassifyIntent(req.Query)
	cfg := rt.retriever.ConfigForIntent(intent)
	cfg = applyRetrieveOverrides(cfg, req)

	start := time.Now()
	results, err := rt.retriever.Retrieve(r.Context(), req.Query, cfg, domain.SearchFilter{Category: req.Category})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(serviceName, "retrieve", string(intent), len(results), time.Since(start))
	}

	writeJSON(w, http.StatusOK, retrieveResponse{
		Intent:  intent,
		Config:  cfg,
		Results: results,
	})
}

func applyRetrieveOverrides(cfg domain.RetrievalConfig, req retrieveRequest) domain.RetrievalConfig {
	topK := cfg.TopK
	alpha := cfg.Alpha
	useMMR := cfg.UseMMR
	lambda := cfg.LambdaMult
	useReranker := cfg.UseReranker

	if req.TopK != nil {
		topK = *req.TopK
	}
	if req.Alpha != nil {
		alpha = *req.Alpha
	}
	if req.UseMMR != nil {
		useMMR = *req.UseMMR
	}
	if req.LambdaMult != nil {
		lambda = *req.LambdaMult
	}
	if req.UseReranker != nil {
		useReranker = *req.UseReranker
	}
	return domain.NewRetrievalConfig(topK, alpha, useMMR, lambda, useReranker)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{
		"error": err.Error(),
		"kind":  errorKind(err),
	})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
