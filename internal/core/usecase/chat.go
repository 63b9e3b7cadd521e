package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/ports"
)

const noContextAnswer = "No relevant context found in the knowledge base for that question."

// ChatUseCase is the RAG assistant: classify the question's intent, run
// hybrid retrieval with the intent-derived config (caller overrides win),
// generate a grounded answer and persist both turns of the conversation.
type ChatUseCase struct {
	retriever     *RetrieveUseCase
	generator     ports.AnswerGenerator
	conversations ports.ConversationStore
}

func NewChatUseCase(
	retriever *RetrieveUseCase,
	generator ports.AnswerGenerator,
	conversations ports.ConversationStore,
) *ChatUseCase {
	return &ChatUseCase{
		retriever:     retriever,
		generator:     generator,
		conversations: conversations,
	}
}

func (uc *ChatUseCase) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatAnswer, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat", errors.New("question is required"))
	}

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	intent := uc.retriever.ClassifyIntent(question)
	cfg := applyOverrides(uc.retriever.ConfigForIntent(intent), req)

	if err := uc.appendMessage(ctx, req.UserID, conversationID, "user", question); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	results, err := uc.retriever.Retrieve(ctx, question, cfg, domain.SearchFilter{Category: req.Category})
	if err != nil {
		// The store being down reads as "nothing found" to the operator;
		// the error itself goes to the log, not the chat window.
		slog.Error("retrieval_failed", "conversation_id", conversationID, "error", err)
		results = nil
	}

	answerText := noContextAnswer
	if len(results) > 0 {
		answerText, err = uc.generator.GenerateAnswer(ctx, question, results)
		if err != nil {
			return nil, fmt.Errorf("generate answer: %w", err)
		}
	}

	if err := uc.appendMessage(ctx, req.UserID, conversationID, "assistant", answerText); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	return &domain.ChatAnswer{
		ConversationID: conversationID,
		Text:           answerText,
		Intent:         intent,
		Sources:        results,
	}, nil
}

// History returns the most recent turns of a conversation in
// chronological order.
func (uc *ChatUseCase) History(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationMessage, error) {
	if uc.conversations == nil {
		return nil, nil
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat history", errors.New("conversation id is required"))
	}
	return uc.conversations.ListRecentMessages(ctx, userID, conversationID, limit)
}

func applyOverrides(cfg domain.RetrievalConfig, req domain.ChatRequest) domain.RetrievalConfig {
	topK := cfg.TopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	alpha := cfg.Alpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}
	useMMR := cfg.UseMMR
	if req.UseMMR != nil {
		useMMR = *req.UseMMR
	}
	lambda := cfg.LambdaMult
	if req.LambdaMult != nil {
		lambda = *req.LambdaMult
	}
	useReranker := cfg.UseReranker
	if req.UseReranker != nil {
		useReranker = *req.UseReranker
	}
	return domain.NewRetrievalConfig(topK, alpha, useMMR, lambda, useReranker)
}

func (uc *ChatUseCase) appendMessage(ctx context.Context, userID, conversationID, role, content string) error {
	if uc.conversations == nil {
		return nil
	}
	return uc.conversations.AppendMessage(ctx, domain.ConversationMessage{
		ID:             uuid.NewString(),
		UserID:         userID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	})
}
