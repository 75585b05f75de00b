// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// SessionMessageReceived carries a message delivered to the chat session.
type SessionMessageReceived struct {
	Message domain.SessionMessage
}

// SessionClosed is sent when the session's delivery channel is closed.
type SessionClosed struct{}

// QuestionSubmitted is sent after a question was accepted by the chat service.
type QuestionSubmitted struct {
	Question string
}

// AskFailed is sent when a question could not be submitted.
type AskFailed struct {
	Question string
	Err      error
}

// DocumentLoaded carries the document being discussed.
type DocumentLoaded struct {
	Document *domain.Document
	Err      error
}
