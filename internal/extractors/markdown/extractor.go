// Package markdown extracts text from Markdown documents.
package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract converts Markdown to plain text.
// Fenced code is kept since questions often concern it.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	title := ""
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		title = t
	} else {
		title = markdownTitle(source, raw.URI)
	}

	now := time.Now()
	doc := &domain.Document{
		URI:       raw.URI,
		Title:     title,
		Content:   stripMarkdown(source),
		Metadata:  make(map[string]any, len(raw.Metadata)+2),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for k, v := range raw.Metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "markdown"

	return doc, nil
}

// markdownTitle returns the first H1 heading, or the file name.
func markdownTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
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

var (
	codeFence     = regexp.MustCompile("(?m)^```.*$")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*)([^*_\n]+)(\*\*|__|\*)`)
	blockquote    = regexp.MustCompile(`(?m)^>[ \t]?`)
	horizontal    = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	listMarkers   = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedList  = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes formatting while keeping blank lines between blocks.
func stripMarkdown(content string) string {
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
