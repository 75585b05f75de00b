package domain

import "time"

// MessageType classifies a delivery to a chat session.
type MessageType string

// Session message types.
const (
	// MessageTyping acknowledges a question while it is answered in the background.
	MessageTyping MessageType = "TYPING"

	// MessageAnswer carries a finished answer.
	MessageAnswer MessageType = "ANSWER"

	// MessageError carries a user-readable failure.
	MessageError MessageType = "ERROR"
)

// TypingIndicator is the content of a MessageTyping delivery.
const TypingIndicator = "🤔 Thinking..."

// SessionMessage is delivered asynchronously to one chat session.
type SessionMessage struct {
	SessionID  string
	Type       MessageType
	DocumentID string
	Question   string
	Content    string
	Tier       Tier
	Degraded   bool
	CreatedAt  time.Time
}
