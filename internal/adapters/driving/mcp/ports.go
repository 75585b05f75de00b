package mcp

import (
	"net/http"

	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document ingests documents and answers questions.
	Document driving.DocumentService

	// QA clears indexed chunks. Optional; without it the clear tool fails.
	QA driving.QAService

	// Metrics is served at /metrics in HTTP mode when set.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
