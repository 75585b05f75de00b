package messages

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestMessages_AreTeaMessages(t *testing.T) {
	msgs := []tea.Msg{
		SessionMessageReceived{Message: domain.SessionMessage{Type: domain.MessageAnswer}},
		SessionClosed{},
		QuestionSubmitted{Question: "q"},
		AskFailed{Question: "q", Err: errors.New("boom")},
		DocumentLoaded{Document: &domain.Document{ID: "doc-1"}},
	}

	for _, m := range msgs {
		assert.NotNil(t, m)
	}
}

func TestMessages_TypeSwitch(t *testing.T) {
	var msg tea.Msg = SessionMessageReceived{Message: domain.SessionMessage{Content: "hi"}}

	switch m := msg.(type) {
	case SessionMessageReceived:
		assert.Equal(t, "hi", m.Message.Content)
	default:
		t.Fatalf("unexpected type %T", msg)
	}
}
