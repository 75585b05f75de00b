// Package mcp provides an MCP (Model Context Protocol) server adapter for askdoc.
// It lets AI assistants ingest documents and ask questions about them.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
