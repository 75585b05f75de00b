package extractors

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/extractors/html"
	"github.com/custodia-labs/askdoc/internal/extractors/markdown"
	"github.com/custodia-labs/askdoc/internal/extractors/pdf"
	"github.com/custodia-labs/askdoc/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction to the highest priority extractor
// registered for a MIME type.
type Registry struct {
	mu         sync.RWMutex
	extractors []driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with every built-in extractor.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(pdf.New())
	return r
}

// Register adds an extractor to the registry.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, extractor)
	sort.SliceStable(r.extractors, func(i, j int) bool {
		return r.extractors[i].Priority() > r.extractors[j].Priority()
	})
}

// Extract uses the highest priority extractor for the document's MIME type.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mimeType := baseMIMEType(raw.MIMEType)

	r.mu.RLock()
	var selected driven.Extractor
	for _, e := range r.extractors {
		if supports(e, mimeType) {
			selected = e
			break
		}
	}
	r.mu.RUnlock()

	if selected == nil {
		return nil, fmt.Errorf("extract %s: %w: %s", raw.URI, domain.ErrUnsupportedType, raw.MIMEType)
	}

	return selected.Extract(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be extracted, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, e := range r.extractors {
		for _, t := range e.SupportedMIMETypes() {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	sort.Strings(types)
	return types
}

func supports(e driven.Extractor, mimeType string) bool {
	for _, t := range e.SupportedMIMETypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}

// baseMIMEType strips parameters such as "; charset=utf-8".
func baseMIMEType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// extensionTypes covers extensions the platform MIME table often lacks.
var extensionTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".log":      "text/plain",
	".csv":      "text/csv",
	".json":     "application/json",
	".html":     "text/html",
	".htm":      "text/html",
	".pdf":      "application/pdf",
}

// DetectMIMEType guesses a MIME type from a file name, defaulting to text/plain.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return baseMIMEType(t)
	}
	return "text/plain"
}
