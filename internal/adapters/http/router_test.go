package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

var errCausedByOutage = errors.New("connection refused")

func newMultipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(defaultTestConfig(), testDeps{}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Request-Id"); got == "" {
		t.Fatal("expected X-Request-Id header to be set")
	}
}

func TestUploadDocument(t *testing.T) {
	handler := newTestRouter(defaultTestConfig(), testDeps{}).Handler()

	body, contentType := newMultipartUpload(t, "file", "refund-policy.txt", "refunds within 30 days")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", rec.Code, rec.Body.String())
	}
	var doc domain.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.Filename != "refund-policy.txt" {
		t.Fatalf("filename = %q", doc.Filename)
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("status = %q, want %q", doc.Status, domain.StatusUploaded)
	}
}

func TestUploadDocumentMissingFile(t *testing.T) {
	handler := newTestRouter(defaultTestConfig(), testDeps{}).Handler()

	body, contentType := newMultipartUpload(t, "attachment", "a.txt", "x")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadDocumentMethodNotAllowed(t *testing.T) {
	handler := newTestRouter(defaultTestConfig(), testDeps{}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestGetDocumentByID(t *testing.T) {
	docs := &docRepoFake{}
	now := time.Now().UTC()
	_ = docs.Create(context.Background(), &domain.Document{
		ID:        "doc-42",
		Filename:  "faq.pdf",
		Status:    domain.StatusReady,
		CreatedAt: now,
		UpdatedAt: now,
	})
	handler := newTestRouter(defaultTestConfig(), testDeps{docs: docs}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/doc-42", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var doc domain.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.ID != "doc-42" || doc.Filename != "faq.pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestGetDocumentByIDNotFound(t *testing.T) {
	handler := newTestRouter(defaultTestConfig(), testDeps{}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestChatHandler(t *testing.T) {
	chat := &chatFake{answer: &domain.ChatAnswer{
		ConversationID: "conv-9",
		Text:           "Refunds are available within 30 days. [1]",
		Intent:         domain.IntentFact,
		Sources: []domain.RetrievalResult{
			{ID: "c1", Content: "refund policy", NormalizedScore: 87.5},
		},
	}}
	handler := newTestRouter(defaultTestConfig(), testDeps{chat: chat}).Handler()

	payload := `{"user_id":"agent-7","question":"what is the refund policy?"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var answer domain.ChatAnswer
	if err := json.Unmarshal(rec.Body.Bytes(), &answer); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if answer.ConversationID != "conv-9" {
		t.Fatalf("conversation id = %q", answer.ConversationID)
	}
	if len(answer.Sources) != 1 {
		t.Fatalf("sources = %d, want 1", len(answer.Sources))
	}
	if chat.lastReq.UserID != "agent-7" {
		t.Fatalf("user id passed through = %q", chat.lastReq.UserID)
	}
}

func TestChatHandlerInvalidJSON(t *testing.T) {
	handler := newTestRouter(defaultTestConfig(), testDeps{}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatHistory(t *testing.T) {
	chat := &chatFake{history: []domain.ConversationMessage{
		{ID: "m1", Role: "user", Content: "what is the refund policy?"},
		{ID: "m2", Role: "assistant", Content: "Refunds within 30 days."},
	}}
	handler := newTestRouter(defaultTestConfig(), testDeps{chat: chat}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/chat/history?conversation_id=conv-9&user_id=agent-7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Messages []domain.ConversationMessage `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(resp.Messages) != 2 || resp.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", resp.Messages)
	}
	if chat.lastLimit != 20 {
		t.Fatalf("limit = %d, want config default 20", chat.lastLimit)
	}
}

func TestChatHistoryLimitCapped(t *testing.T) {
	chat := &chatFake{}
	handler := newTestRouter(defaultTestConfig(), testDeps{chat: chat}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/chat/history?conversation_id=conv-9&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if chat.lastLimit != 5 {
		t.Fatalf("limit = %d, want 5", chat.lastLimit)
	}

	// Requests cannot raise the limit past the configured cap.
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/chat/history?conversation_id=conv-9&limit=500", nil))
	if chat.lastLimit != 20 {
		t.Fatalf("limit = %d, want capped at 20", chat.lastLimit)
	}
}

func TestChatHistoryMissingConversationID(t *testing.T) {
	handler := newTestRouter(defaultTestConfig(), testDeps{}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/chat/history", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatHandlerTemporaryError(t *testing.T) {
	chat := &chatFake{err: domain.WrapError(domain.ErrTemporary, "embed query", errCausedByOutage)}
	handler := newTestRouter(defaultTestConfig(), testDeps{chat: chat}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"question":"hi"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
