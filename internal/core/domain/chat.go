package domain

import "time"

type ConversationMessage struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatRequest struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	Question       string `json:"question"`
	Category       string `json:"category,omitempty"`

	// Overrides, when non-nil, win over the intent-derived defaults.
	TopK        *int     `json:"top_k,omitempty"`
	Alpha       *float64 `json:"alpha,omitempty"`
	UseMMR      *bool    `json:"use_mmr,omitempty"`
	LambdaMult  *float64 `json:"lambda_mult,omitempty"`
	UseReranker *bool    `json:"use_reranker,omitempty"`
}

type ChatAnswer struct {
	ConversationID string            `json:"conversation_id"`
	Text           string            `json:"text"`
	Intent         QueryIntent       `json:"intent"`
	Sources        []RetrievalResult `json:"sources"`
}
