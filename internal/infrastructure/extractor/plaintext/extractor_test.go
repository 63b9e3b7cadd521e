package plaintext

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

type storageFake struct {
	files map[string][]byte
}

func (s *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[key] = raw
	return nil
}

func (s *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.files[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func extractFrom(t *testing.T, raw []byte) (string, error) {
	t.Helper()
	storage := &storageFake{files: map[string][]byte{"doc-1_notes.txt": raw}}
	doc := &domain.Document{Filename: "notes.txt", StoragePath: "doc-1_notes.txt"}
	return NewExtractor(storage).Extract(context.Background(), doc)
}

func TestExtractStripsBOMAndWhitespace(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("  SLA: respond within 4 hours\n")...)

	text, err := extractFrom(t, raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "SLA: respond within 4 hours" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractRejectsBinaryContent(t *testing.T) {
	_, err := extractFrom(t, []byte{0xFF, 0xFE, 0x00, 0x41})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("Extract() error = %v, want invalid-input kind", err)
	}
}

func TestExtractEmptyFileIsNotAnError(t *testing.T) {
	text, err := extractFrom(t, []byte("   \n\t"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "" {
		t.Fatalf("text = %q, want empty", text)
	}
}
