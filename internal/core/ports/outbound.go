package ports

import (
	"context"
	"io"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

// DocumentRepository persists knowledge document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveClassification(ctx context.Context, id string, cls domain.Classification) error
}

// AlertRepository persists dashboard alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	GetByID(ctx context.Context, id string) (*domain.Alert, error)
	List(ctx context.Context, status domain.AlertStatus, limit int) ([]domain.Alert, error)
	UpdateStatus(ctx context.Context, id string, status domain.AlertStatus) error
}

// CaseRepository persists escalated cases.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	List(ctx context.Context, status domain.CaseStatus, limit int) ([]domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error
}

// FeedRepository persists activity feed items.
type FeedRepository interface {
	Append(ctx context.Context, item *domain.FeedItem) error
	ListRecent(ctx context.Context, limit int) ([]domain.FeedItem, error)
}

// ConversationStore persists assistant chat history.
type ConversationStore interface {
	AppendMessage(ctx context.Context, message domain.ConversationMessage) error
	ListRecentMessages(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationMessage, error)
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// DocumentClassifier classifies extracted text.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) (domain.Classification, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits text into semantically usable chunks.
type Chunker interface {
	Split(text string) []string
}

// VectorStore indexes chunks and performs semantic search.
// SimilaritySearch returns candidates best-first with their raw cosine
// similarity untouched and their stored embeddings attached.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error
	SimilaritySearch(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.ChunkCandidate, error)
}

// CompletionProvider is the minimal LLM capability the ranking layer
// depends on. Injected rather than reached through a global so tests can
// substitute deterministic fakes.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnswerGenerator creates the final user-facing answer.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, results []domain.RetrievalResult) (string, error)
}
