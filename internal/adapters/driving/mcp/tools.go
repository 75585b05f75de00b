package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// usernameMCP is recorded for questions asked without a username.
const usernameMCP = "mcp"

// AskInput is the input schema for the ask tool.
type AskInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the document to ask about"`
	Question   string `json:"question" jsonschema:"the question to answer from the document"`
	Username   string `json:"username,omitempty" jsonschema:"who is asking, recorded in the answer log"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string `json:"answer"`
	Tier     string `json:"tier,omitempty"`
	Degraded bool   `json:"degraded"`
	RecordID string `json:"record_id"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Title    string `json:"title" jsonschema:"a title for the document"`
	Content  string `json:"content" jsonschema:"the document text"`
	MIMEType string `json:"mime_type,omitempty" jsonschema:"content type of the text (default text/plain)"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Summary    string `json:"summary,omitempty"`
}

// ClearInput is the input schema for the clear tool.
type ClearInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the document whose chunks are removed"`
}

// ClearOutput is the output schema for the clear tool.
type ClearOutput struct {
	DocumentID string `json:"document_id"`
	Cleared    bool   `json:"cleared"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// DocumentInfo summarises one stored document.
type DocumentInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URI       string    `json:"uri,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about an ingested document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest a text document so questions can be asked about it",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear",
		Description: "Remove the indexed chunks of a document from every tier",
	}, s.handleClear)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents, newest first",
	}, s.handleListDocuments)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.DocumentID == "" {
		return nil, AskOutput{}, errors.New("document_id is required")
	}

	username := input.Username
	if username == "" {
		username = usernameMCP
	}

	rec, err := s.ports.Document.Ask(ctx, input.DocumentID, input.Question, username)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:   rec.Answer,
		Tier:     rec.Tier.String(),
		Degraded: rec.Degraded,
		RecordID: rec.ID,
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, IngestOutput{}, errors.New("title is required")
	}

	mimeType := input.MIMEType
	if mimeType == "" {
		mimeType = "text/plain"
	}

	doc, err := s.ports.Document.Ingest(ctx, &domain.RawDocument{
		URI:      title,
		MIMEType: mimeType,
		Content:  []byte(input.Content),
		Metadata: map[string]any{"title": title, "source": "mcp"},
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Summary:    doc.Summary,
	}, nil
}

// handleClear handles the clear tool invocation.
func (s *Server) handleClear(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClearInput,
) (*mcp.CallToolResult, ClearOutput, error) {
	if s.ports.QA == nil {
		return nil, ClearOutput{}, domain.ErrNotConfigured
	}
	if input.DocumentID == "" {
		return nil, ClearOutput{}, errors.New("document_id is required")
	}

	if err := s.ports.QA.ClearDocument(ctx, input.DocumentID); err != nil {
		return nil, ClearOutput{}, err
	}
	return nil, ClearOutput{DocumentID: input.DocumentID, Cleared: true}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	return nil, ListDocumentsOutput{
		Documents: documentInfos(docs),
		Count:     len(docs),
	}, nil
}

func documentInfos(docs []domain.Document) []DocumentInfo {
	infos := make([]DocumentInfo, len(docs))
	for i := range docs {
		infos[i] = DocumentInfo{
			ID:        docs[i].ID,
			Title:     docs[i].Title,
			URI:       docs[i].URI,
			Summary:   docs[i].Summary,
			CreatedAt: docs[i].CreatedAt,
		}
	}
	return infos
}
