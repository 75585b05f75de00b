package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "application/json")
	assert.NotContains(t, mimeTypes, "text/html")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestExtract_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/path/to/annual_report-2024.txt",
		MIMEType: "text/plain",
		Content:  []byte("First paragraph.\r\n\r\nSecond paragraph.\r\n"),
	}

	doc, err := New().Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "annual report 2024", doc.Title)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", doc.Content)
	assert.Equal(t, "text/plain", doc.Metadata["mime_type"])
	assert.Empty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestExtract_TitleFromMetadata(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "upload.txt",
		MIMEType: "text/plain",
		Content:  []byte("body"),
		Metadata: map[string]any{"title": "Quarterly Plan"},
	}

	doc, err := New().Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Plan", doc.Title)
}

func TestExtract_DoesNotMutateRawMetadata(t *testing.T) {
	meta := map[string]any{"owner": "ops"}
	raw := &domain.RawDocument{URI: "a.txt", MIMEType: "text/plain", Content: []byte("x"), Metadata: meta}

	_, err := New().Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.NotContains(t, meta, "mime_type")
}

func TestExtract_NilDocument(t *testing.T) {
	doc, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, doc)
}

func TestExtract_EmptyContent(t *testing.T) {
	doc, err := New().Extract(context.Background(), &domain.RawDocument{URI: "empty.txt", MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Empty(t, doc.Content)
}
