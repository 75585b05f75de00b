// Package pdf extracts text from PDF documents using a pure Go reader.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract reads the text of every page. Pages are separated by a blank line.
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if len(raw.Content) == 0 {
		return nil, fmt.Errorf("read pdf %s: %w: empty file", raw.URI, domain.ErrInvalidInput)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w: %w", raw.URI, domain.ErrInvalidInput, err)
	}

	pageCount := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	var pages []string
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("pdf %s: skipping page %d: %v", raw.URI, i, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	title := titleFromURI(raw.URI)
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		title = t
	}

	now := time.Now()
	doc := &domain.Document{
		URI:       raw.URI,
		Title:     title,
		Content:   strings.Join(pages, "\n\n"),
		Metadata:  make(map[string]any, len(raw.Metadata)+3),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for k, v := range raw.Metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	doc.Metadata["page_count"] = pageCount

	return doc, nil
}

func titleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
