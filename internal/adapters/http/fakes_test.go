package httpadapter

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/kittipatc/opsdesk/internal/config"
	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/usecase"
	"github.com/kittipatc/opsdesk/internal/observability/metrics"
)

var errMissingConversation = errors.New("conversation id is required")

type ingestorFake struct {
	err error
}

func (f *ingestorFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "doc-1_file.txt",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type chatFake struct {
	answer    *domain.ChatAnswer
	history   []domain.ConversationMessage
	err       error
	lastReq   domain.ChatRequest
	lastLimit int
}

func (f *chatFake) Chat(_ context.Context, req domain.ChatRequest) (*domain.ChatAnswer, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func (f *chatFake) History(_ context.Context, _, conversationID string, limit int) ([]domain.ConversationMessage, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if conversationID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat history", errMissingConversation)
	}
	return f.history, nil
}

type docRepoFake struct {
	docs map[string]*domain.Document
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.docs == nil {
		f.docs = make(map[string]*domain.Document)
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (f *docRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}

func (f *docRepoFake) SaveClassification(context.Context, string, domain.Classification) error {
	return nil
}

type alertRepoFake struct {
	alerts map[string]*domain.Alert
}

func (f *alertRepoFake) Create(_ context.Context, alert *domain.Alert) error {
	if f.alerts == nil {
		f.alerts = make(map[string]*domain.Alert)
	}
	copied := *alert
	f.alerts[alert.ID] = &copied
	return nil
}

func (f *alertRepoFake) GetByID(_ context.Context, id string) (*domain.Alert, error) {
	alert, ok := f.alerts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return alert, nil
}

func (f *alertRepoFake) List(_ context.Context, status domain.AlertStatus, _ int) ([]domain.Alert, error) {
	out := make([]domain.Alert, 0)
	for _, alert := range f.alerts {
		if status == "" || alert.Status == status {
			out = append(out, *alert)
		}
	}
	return out, nil
}

func (f *alertRepoFake) UpdateStatus(_ context.Context, id string, status domain.AlertStatus) error {
	alert, ok := f.alerts[id]
	if !ok {
		return domain.ErrNotFound
	}
	alert.Status = status
	return nil
}

type caseRepoFake struct {
	cases map[string]domain.Case
}

func (f *caseRepoFake) Create(_ context.Context, c *domain.Case) error {
	if f.cases == nil {
		f.cases = make(map[string]domain.Case)
	}
	f.cases[c.ID] = *c
	return nil
}

func (f *caseRepoFake) GetByID(_ context.Context, id string) (*domain.Case, error) {
	c, ok := f.cases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := c
	return &out, nil
}

func (f *caseRepoFake) List(_ context.Context, status domain.CaseStatus, _ int) ([]domain.Case, error) {
	out := make([]domain.Case, 0)
	for _, c := range f.cases {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *caseRepoFake) Update(_ context.Context, c *domain.Case) error {
	if _, ok := f.cases[c.ID]; !ok {
		return domain.ErrNotFound
	}
	f.cases[c.ID] = *c
	return nil
}

type feedRepoFake struct {
	items []domain.FeedItem
}

func (f *feedRepoFake) Append(_ context.Context, item *domain.FeedItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *feedRepoFake) ListRecent(_ context.Context, _ int) ([]domain.FeedItem, error) {
	return f.items, nil
}

type embedderFake struct{}

func (embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type vectorFake struct {
	candidates []domain.ChunkCandidate
	err        error
}

func (f *vectorFake) IndexChunks(context.Context, *domain.Document, []string, [][]float32) error {
	return nil
}

func (f *vectorFake) SimilaritySearch(_ context.Context, _ []float32, limit int, _ domain.SearchFilter) ([]domain.ChunkCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.candidates) {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func defaultTestConfig() config.Config {
	return config.Config{
		HTTPRateLimitPerSecond:   1000,
		HTTPRateLimitBurst:       1000,
		HTTPMaxInFlight:          16,
		ChatHistoryLimitMessages: 20,
	}
}

type testDeps struct {
	ingestor *ingestorFake
	chat     *chatFake
	docs     *docRepoFake
	alerts   *alertRepoFake
	cases    *caseRepoFake
	feed     *feedRepoFake
	vector   *vectorFake
}

func newTestRouter(cfg config.Config, deps testDeps) *Router {
	if deps.ingestor == nil {
		deps.ingestor = &ingestorFake{}
	}
	if deps.chat == nil {
		deps.chat = &chatFake{answer: &domain.ChatAnswer{ConversationID: "conv-1", Text: "ok"}}
	}
	if deps.docs == nil {
		deps.docs = &docRepoFake{}
	}
	if deps.alerts == nil {
		deps.alerts = &alertRepoFake{}
	}
	if deps.cases == nil {
		deps.cases = &caseRepoFake{}
	}
	if deps.feed == nil {
		deps.feed = &feedRepoFake{}
	}
	if deps.vector == nil {
		deps.vector = &vectorFake{}
	}

	retriever := usecase.NewRetrieveUseCase(
		embedderFake{},
		deps.vector,
		nil,
		domain.DefaultCueTable(),
		usecase.DefaultIntentProfiles(5),
		usecase.Tuning{},
	)
	dashboard := usecase.NewDashboardUseCase(deps.alerts, deps.cases, deps.feed)

	return NewRouter(cfg, Deps{
		Ingestor:  deps.ingestor,
		Chat:      deps.chat,
		Retriever: retriever,
		Documents: deps.docs,
		Dashboard: dashboard,
		Metrics:   metrics.NewHTTPServerMetrics(serviceName),
	})
}
