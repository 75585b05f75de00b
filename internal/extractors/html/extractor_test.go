package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/html", "application/xhtml+xml"}, New().SupportedMIMETypes())
}

func TestExtract_ParagraphsBecomeBlankLines(t *testing.T) {
	source := `<html><head><title>Policy &amp; Terms</title><style>p{}</style></head>
<body><script>alert(1)</script>
<h1>Refunds</h1>
<p>Refunds are issued   within 14 days.</p>
<p>Contact<br>support@example.com</p>
<!-- hidden -->
</body></html>`

	doc, err := New().Extract(context.Background(), &domain.RawDocument{
		URI: "policy.html", MIMEType: "text/html", Content: []byte(source),
	})
	require.NoError(t, err)

	assert.Equal(t, "Policy & Terms", doc.Title)
	assert.Equal(t, "Refunds\n\nRefunds are issued within 14 days.\n\nContact\nsupport@example.com", doc.Content)
	assert.NotContains(t, doc.Content, "alert")
	assert.Equal(t, "html", doc.Metadata["format"])
}

func TestExtract_ListItemsOnSeparateLines(t *testing.T) {
	doc, err := New().Extract(context.Background(), &domain.RawDocument{
		URI: "list.html", MIMEType: "text/html", Content: []byte("<ul><li>one</li><li>two</li></ul>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", doc.Content)
}

func TestExtract_TitleFallsBackToFilename(t *testing.T) {
	doc, err := New().Extract(context.Background(), &domain.RawDocument{
		URI: "/site/about-us.html", MIMEType: "text/html", Content: []byte("<p>hi</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "about us", doc.Title)
}

func TestExtract_NilDocument(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
