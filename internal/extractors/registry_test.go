package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

type stubExtractor struct {
	types    []string
	priority int
	title    string
}

func (s *stubExtractor) SupportedMIMETypes() []string { return s.types }
func (s *stubExtractor) Priority() int                { return s.priority }
func (s *stubExtractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	return &domain.Document{URI: raw.URI, Title: s.title, Content: string(raw.Content)}, nil
}

func TestRegistry_PicksHighestPriority(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{types: []string{"text/plain"}, priority: 5, title: "low"})
	r.Register(&stubExtractor{types: []string{"text/plain"}, priority: 60, title: "high"})

	doc, err := r.Extract(context.Background(), &domain.RawDocument{URI: "a.txt", MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "high", doc.Title)
}

func TestRegistry_IgnoresMIMEParameters(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{types: []string{"text/plain"}, priority: 5, title: "plain"})

	doc, err := r.Extract(context.Background(), &domain.RawDocument{MIMEType: "Text/Plain; charset=utf-8"})
	require.NoError(t, err)
	assert.Equal(t, "plain", doc.Title)
}

func TestRegistry_UnsupportedType(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Extract(context.Background(), &domain.RawDocument{URI: "a.png", MIMEType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilDocument(t *testing.T) {
	_, err := NewRegistry().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefaultRegistry_SupportedMIMETypes(t *testing.T) {
	types := NewDefaultRegistry().SupportedMIMETypes()

	for _, want := range []string{"text/plain", "text/markdown", "text/html", "application/pdf"} {
		assert.Contains(t, types, want)
	}
	assert.IsIncreasing(t, types)
}

func TestDefaultRegistry_HTMLUsesHTMLExtractor(t *testing.T) {
	doc, err := NewDefaultRegistry().Extract(context.Background(), &domain.RawDocument{
		URI: "page.html", MIMEType: "text/html", Content: []byte("<p>One</p><p>Two</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "One\n\nTwo", doc.Content)
}

func TestDetectMIMEType(t *testing.T) {
	tests := map[string]string{
		"notes.md":        "text/markdown",
		"REPORT.PDF":      "application/pdf",
		"index.htm":       "text/html",
		"data.json":       "application/json",
		"no-extension":    "text/plain",
		"/a/b/readme.txt": "text/plain",
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectMIMEType(path), path)
	}
}
