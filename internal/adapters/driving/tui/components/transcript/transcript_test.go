package transcript

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestTranscript_EmptyView(t *testing.T) {
	tr := New(nil)
	tr.SetSize(80, 10)

	assert.Contains(t, tr.View(), "Ask a question to get started.")
	assert.Empty(t, tr.Entries())
}

func TestTranscript_QuestionAndAnswer(t *testing.T) {
	tr := New(nil)
	tr.SetSize(80, 20)

	tr.AddQuestion("How much leave?")
	tr.AddAnswer("Twenty days.", domain.TierVector, false)

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, RoleUser, entries[0].Role)
	assert.Equal(t, RoleAssistant, entries[1].Role)
	assert.Equal(t, domain.TierVector, entries[1].Tier)

	view := tr.View()
	assert.Contains(t, view, "How much leave?")
	assert.Contains(t, view, "Twenty days.")
	assert.Contains(t, view, "[vector]")
}

func TestTranscript_DegradedAnswer(t *testing.T) {
	tr := New(nil)
	tr.SetSize(80, 20)

	tr.AddAnswer("Based on the document", domain.TierKeyword, true)

	assert.Contains(t, tr.View(), "(degraded)")
}

func TestTranscript_Error(t *testing.T) {
	tr := New(nil)
	tr.SetSize(80, 20)

	tr.AddError("Sorry, I encountered an error: not found")

	entries := tr.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, RoleError, entries[0].Role)
	assert.Contains(t, tr.View(), "not found")
}

func TestTranscript_FollowsLatest(t *testing.T) {
	tr := New(nil)
	tr.SetSize(80, 4)

	for i := 0; i < 20; i++ {
		tr.AddQuestion(fmt.Sprintf("question %d", i))
	}

	assert.Contains(t, tr.View(), "question 19")

	tr.ScrollUp()
	assert.NotContains(t, tr.View(), "question 19")

	tr.ScrollDown()
	assert.Contains(t, tr.View(), "question 19")
}

func TestTranscript_EntriesIsCopy(t *testing.T) {
	tr := New(nil)
	tr.AddQuestion("q")

	entries := tr.Entries()
	entries[0].Text = "changed"

	assert.Equal(t, "q", tr.Entries()[0].Text)
}
