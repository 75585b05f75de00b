package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure ChatDispatcher implements the interface.
var _ driving.ChatService = (*ChatDispatcher)(nil)

// DefaultSessionBuffer is the delivery channel capacity of a session.
const DefaultSessionBuffer = 16

// ChatDispatcher answers chat questions on background goroutines and
// delivers the results to the asking session's channel.
type ChatDispatcher struct {
	docs   driving.DocumentService
	buffer int
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]chan domain.SessionMessage

	wg sync.WaitGroup
}

// NewChatDispatcher creates a dispatcher. A non-positive buffer uses DefaultSessionBuffer.
func NewChatDispatcher(docs driving.DocumentService, buffer int) *ChatDispatcher {
	if buffer <= 0 {
		buffer = DefaultSessionBuffer
	}
	return &ChatDispatcher{
		docs:     docs,
		buffer:   buffer,
		now:      time.Now,
		sessions: make(map[string]chan domain.SessionMessage),
	}
}

// Open registers a session. Opening an existing session replaces it and
// closes the previous channel. The returned func closes the session;
// later deliveries to it are dropped.
func (d *ChatDispatcher) Open(sessionID string) (<-chan domain.SessionMessage, func()) {
	ch := make(chan domain.SessionMessage, d.buffer)

	d.mu.Lock()
	if prev, ok := d.sessions[sessionID]; ok {
		close(prev)
	}
	d.sessions[sessionID] = ch
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			if d.sessions[sessionID] == ch {
				delete(d.sessions, sessionID)
				close(ch)
			}
		})
	}
}

// Ask delivers a typing indicator immediately and answers in the
// background. The answer is computed with a context that is not cancelled
// with ctx.
func (d *ChatDispatcher) Ask(ctx context.Context, sessionID, documentID, question, username string) error {
	if !d.isOpen(sessionID) {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionClosed)
	}

	d.deliver(domain.SessionMessage{
		SessionID:  sessionID,
		Type:       domain.MessageTyping,
		DocumentID: documentID,
		Question:   question,
		Content:    domain.TypingIndicator,
		CreatedAt:  d.now(),
	})

	bg := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		msg := domain.SessionMessage{
			SessionID:  sessionID,
			DocumentID: documentID,
			Question:   question,
		}

		rec, err := d.docs.Ask(bg, documentID, question, username)
		if err != nil {
			logger.Warn("Chat question in %s failed: %v", sessionID, err)
			msg.Type = domain.MessageError
			msg.Content = "Sorry, I encountered an error: " + err.Error()
			msg.Degraded = true
		} else {
			msg.Type = domain.MessageAnswer
			msg.Content = rec.Answer
			msg.Tier = rec.Tier
			msg.Degraded = rec.Degraded
		}
		msg.CreatedAt = d.now()
		d.deliver(msg)
	}()

	return nil
}

// Wait blocks until every in-flight answer has been delivered or dropped.
func (d *ChatDispatcher) Wait() {
	d.wg.Wait()
}

func (d *ChatDispatcher) isOpen(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.sessions[sessionID]
	return ok
}

// deliver never blocks: messages for closed sessions or full buffers are dropped.
func (d *ChatDispatcher) deliver(msg domain.SessionMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.sessions[msg.SessionID]
	if !ok {
		logger.Warn("Dropping %s message for closed session %s", msg.Type, msg.SessionID)
		return
	}
	select {
	case ch <- msg:
	default:
		logger.Warn("Dropping %s message for session %s: buffer full", msg.Type, msg.SessionID)
	}
}
