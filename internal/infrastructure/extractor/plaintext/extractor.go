package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/ports"
)

// utf8BOM prefixes files exported from Windows tooling; Notepad still
// writes it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles .txt and .md uploads, which only need validation
// and cleanup rather than real parsing.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s is not valid utf-8 text: %w", doc.Filename, domain.ErrInvalidInput)
	}
	return string(bytes.TrimSpace(raw)), nil
}
