package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.RAGTopK != 5 {
		t.Fatalf("RAGTopK = %d, want 5", cfg.RAGTopK)
	}
	if cfg.RAGCategoryBoost != 0.2 {
		t.Fatalf("RAGCategoryBoost = %v, want 0.2", cfg.RAGCategoryBoost)
	}
	if cfg.RAGUseReranker {
		t.Fatal("RAGUseReranker should default to false")
	}
	if cfg.RAGRerankTimeoutSeconds != 10 {
		t.Fatalf("RAGRerankTimeoutSeconds = %d, want 10", cfg.RAGRerankTimeoutSeconds)
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("RAG_TOP_K", "8")
	t.Setenv("RAG_USE_RERANKER", "true")
	t.Setenv("HTTP_RATE_LIMIT_PER_SECOND", "2.5")

	cfg := Load()

	if cfg.RAGTopK != 8 {
		t.Fatalf("RAGTopK = %d, want 8", cfg.RAGTopK)
	}
	if !cfg.RAGUseReranker {
		t.Fatal("RAGUseReranker should be true")
	}
	if cfg.HTTPRateLimitPerSecond != 2.5 {
		t.Fatalf("HTTPRateLimitPerSecond = %v, want 2.5", cfg.HTTPRateLimitPerSecond)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	os.Clearenv()
	t.Setenv("RAG_TOP_K", "not-a-number")
	t.Setenv("RAG_USE_RERANKER", "maybe")

	cfg := Load()

	if cfg.RAGTopK != 5 {
		t.Fatalf("RAGTopK = %d, want fallback 5", cfg.RAGTopK)
	}
	if cfg.RAGUseReranker {
		t.Fatal("malformed bool should fall back to false")
	}
}

func TestLoadCueTableEmptyPath(t *testing.T) {
	table, err := LoadCueTable("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Version == "" {
		t.Fatal("default cue table should carry a version")
	}
}

func TestLoadCueTableFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cues.yaml")
	body := "version: \"2026-03\"\ncomparison:\n  - versus\nlist:\n  - enumerate\nsummary:\n  - recap\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadCueTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Version != "2026-03" {
		t.Fatalf("Version = %q, want 2026-03", table.Version)
	}
	if got := table.Classify("A versus B"); got != "comparison" {
		t.Fatalf("Classify = %q, want comparison", got)
	}
}

func TestLoadCueTableMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cues.yaml")
	if err := os.WriteFile(path, []byte("comparison:\n  - versus\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadCueTable(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestLoadCueTableMissingFile(t *testing.T) {
	if _, err := LoadCueTable(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
