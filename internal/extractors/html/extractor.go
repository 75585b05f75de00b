// Package html extracts readable text from HTML documents.
package html

import (
	"context"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract strips markup. Block elements become paragraph breaks.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := string(raw.Content)

	title := ""
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		title = t
	} else {
		title = htmlTitle(source, raw.URI)
	}

	now := time.Now()
	doc := &domain.Document{
		URI:       raw.URI,
		Title:     title,
		Content:   stripHTML(source),
		Metadata:  make(map[string]any, len(raw.Metadata)+2),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for k, v := range raw.Metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "html"

	return doc, nil
}

var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	comments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockTags     = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|ul|ol|table|section|article|blockquote|pre|header|footer)[^>]*>`)
	lineTags      = regexp.MustCompile(`(?i)<(br|hr)\s*/?>|</(li|tr)>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// htmlTitle reads the <title> tag or falls back to the file name.
func htmlTitle(content, uri string) string {
	if m := titleTag.FindStringSubmatch(content); len(m) > 1 {
		if title := strings.TrimSpace(html.UnescapeString(m[1])); title != "" {
			return title
		}
	}

	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// stripHTML removes tags and keeps block boundaries as blank lines.
func stripHTML(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, comments} {
		content = re.ReplaceAllString(content, "")
	}

	content = blockTags.ReplaceAllString(content, "\n\n")
	content = lineTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
