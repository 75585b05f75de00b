// Package plaintext extracts text from plain text documents.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/toml",
		"text/x-log",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract returns the bytes as text with line endings normalised.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	now := time.Now()
	doc := &domain.Document{
		URI:       raw.URI,
		Title:     titleFromMetadataOrURI(raw),
		Content:   strings.TrimSpace(content),
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Metadata["mime_type"] = raw.MIMEType

	return doc, nil
}

// titleFromMetadataOrURI prefers a caller supplied title.
func titleFromMetadataOrURI(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return titleFromURI(raw.URI)
}

// titleFromURI extracts a human-readable title from a URI.
func titleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
