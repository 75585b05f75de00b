// Package tui provides the interactive chat interface for askdoc.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the chat TUI.
type Ports struct {
	// Chat delivers answers to the session asynchronously.
	Chat driving.ChatService

	// Document looks up the document being discussed. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
