package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/ports"
)

// Composite routes extraction by mime type with a filename-extension
// fallback, so uploads from clients that send a generic octet-stream
// mime still land on the right parser.
type Composite struct {
	pdf       ports.TextExtractor
	excel     ports.TextExtractor
	plaintext ports.TextExtractor
}

func NewComposite(pdf, excel, plaintext ports.TextExtractor) *Composite {
	return &Composite{pdf: pdf, excel: excel, plaintext: plaintext}
}

func (c *Composite) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	return c.pick(doc).Extract(ctx, doc)
}

func (c *Composite) pick(doc *domain.Document) ports.TextExtractor {
	mime := strings.ToLower(doc.MimeType)
	switch {
	case strings.Contains(mime, "pdf"):
		return c.pdf
	case strings.Contains(mime, "spreadsheet"), strings.Contains(mime, "ms-excel"):
		return c.excel
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".pdf":
		return c.pdf
	case ".xlsx", ".xlsm", ".xls":
		return c.excel
	default:
		return c.plaintext
	}
}
