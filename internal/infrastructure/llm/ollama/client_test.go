package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

func TestGeneratorBuildsContextPrompt(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	gen := NewGenerator(client)
	results := []domain.RetrievalResult{
		{Filename: "sla.txt", Content: "chunk text", NormalizedScore: 87.5},
	}
	_, err := gen.GenerateAnswer(context.Background(), "question?", results)
	if err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}
	if !strings.Contains(capturedPrompt, "question?") || !strings.Contains(capturedPrompt, "chunk text") {
		t.Fatalf("unexpected prompt: %s", capturedPrompt)
	}
	if !strings.Contains(capturedPrompt, "sla.txt") || !strings.Contains(capturedPrompt, "87.5") {
		t.Fatalf("expected source citation data in prompt: %s", capturedPrompt)
	}
}

func TestCompleteReturnsTrimmedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"  2, 1, 3  "}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	out, err := client.Complete(context.Background(), "order these")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "2, 1, 3" {
		t.Fatalf("Complete() = %q, want trimmed response", out)
	}
}

func TestClassifierParsesCallCenterFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"{\"category\":\"billing\",\"language\":\"th\",\"tags\":[\"refund\"],\"confidence\":0.9,\"summary\":\"refund policy\"}"}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	cls, err := NewClassifier(client).Classify(context.Background(), "some document text")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.Category != "billing" || cls.Language != "th" {
		t.Fatalf("unexpected classification: %+v", cls)
	}
	if len(cls.Tags) != 1 || cls.Tags[0] != "refund" {
		t.Fatalf("unexpected tags: %v", cls.Tags)
	}
}

func TestClassifierStripsSurroundingProse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"Here is the result: {\"category\":\"general\",\"language\":\"en\",\"confidence\":0.5,\"summary\":\"x\"} hope it helps"}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	cls, err := NewClassifier(client).Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.Category != "general" {
		t.Fatalf("Category = %q, want general", cls.Category)
	}
	if cls.Tags == nil {
		t.Fatal("Tags should be normalized to an empty slice")
	}
}

func TestEmbedIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	embedder := NewEmbedder(client)
	_, err := embedder.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestRetryableStatusWrapsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	_, err := client.Complete(context.Background(), "hi")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error kind, got %v", err)
	}
}

func TestNonRetryableStatusIsNotTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	_, err := client.Complete(context.Background(), "hi")
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("bad request should not be temporary: %v", err)
	}
}
