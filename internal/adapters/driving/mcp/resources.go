package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

const (
	// URIScheme is the custom URI scheme for askdoc resources.
	uriScheme = "askdoc://"
)

// documentResource is the JSON body of a single document resource.
type documentResource struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	URI           string            `json:"uri,omitempty"`
	Summary       string            `json:"summary,omitempty"`
	ContentLength int               `json:"content_length"`
	Questions     int               `json:"questions"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Content       string            `json:"content"`
}

func newDocumentResource(details *driving.DocumentDetails, content string) documentResource {
	return documentResource{
		ID:            details.ID,
		Title:         details.Title,
		URI:           details.URI,
		Summary:       details.Summary,
		ContentLength: details.ContentLength,
		Questions:     details.Questions,
		CreatedAt:     details.CreatedAt,
		UpdatedAt:     details.UpdatedAt,
		Metadata:      details.Metadata,
		Content:       content,
	}
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all ingested documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for a single document.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document",
		Description: "Details and extracted text of a specific document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// handleDocumentsResource returns a list of all documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return jsonResource(req.Params.URI, documentInfos(docs))
}

// handleDocumentResource returns the details and content of one document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract documentId from URI: askdoc://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	details, err := s.ports.Document.GetDetails(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document details: %w", err)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return jsonResource(req.Params.URI, newDocumentResource(details, doc.Content))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like askdoc://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
