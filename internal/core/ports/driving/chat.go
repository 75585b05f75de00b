package driving

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// ChatService answers questions in the background and delivers results to
// sessions. The asking call never blocks on the answer.
type ChatService interface {
	// Open registers a session and returns its delivery channel and a close func.
	Open(sessionID string) (<-chan domain.SessionMessage, func())

	// Ask acknowledges the question with a typing message and answers it
	// asynchronously. Returns domain.ErrSessionClosed for unknown sessions.
	Ask(ctx context.Context, sessionID, documentID, question, username string) error

	// Wait blocks until every in-flight answer has been delivered.
	Wait()
}
