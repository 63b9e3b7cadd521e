package ports

import (
	"context"
	"io"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// Retriever is the inbound contract for hybrid retrieval: intent
// classification, the intent-derived default config and the search
// itself.
type Retriever interface {
	ClassifyIntent(query string) domain.QueryIntent
	ConfigForIntent(intent domain.QueryIntent) domain.RetrievalConfig
	Retrieve(ctx context.Context, query string, cfg domain.RetrievalConfig, filter domain.SearchFilter) ([]domain.RetrievalResult, error)
}

// ChatService is the inbound contract for the RAG assistant.
type ChatService interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatAnswer, error)
	History(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationMessage, error)
}
