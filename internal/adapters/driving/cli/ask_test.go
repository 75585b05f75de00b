package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ask", "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg(s)")
}

func TestAskCmd_KeywordAnswerIsDegraded(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "", "ask", doc.ID, "How", "much", "annual", "leave")

	require.NoError(t, err)
	assert.Contains(t, out, "Annual leave is 20 days per year.")
	assert.Contains(t, out, "[tier: keyword] (degraded)")
}

func TestAskCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "", "ask", doc.ID, "When does the office open", "--json", "--user", "alice")
	require.NoError(t, err)

	var result askResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, doc.ID, result.DocumentID)
	assert.Equal(t, "When does the office open", result.Question)
	assert.Equal(t, "keyword", result.Tier)
	assert.True(t, result.Degraded)
	assert.Equal(t, "alice", result.Username)
	assert.NotEmpty(t, result.ID)
}

func TestAskCmd_UnknownDocument(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "ask", "missing", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "Document not found.")
	assert.Contains(t, out, "[tier: none] (degraded)")
}

func TestAskCmd_UnknownDocumentJSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "ask", "missing", "anything", "--json")

	require.NoError(t, err)
	var result askResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Document not found.", result.Answer)
	assert.True(t, result.Degraded)
}

func TestAnswerTag(t *testing.T) {
	tests := []struct {
		tier     domain.Tier
		degraded bool
		want     string
	}{
		{domain.TierVector, false, "[tier: vector]"},
		{domain.TierKeyword, true, "[tier: keyword] (degraded)"},
		{"", true, "[tier: none] (degraded)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, answerTag(tt.tier, tt.degraded))
	}
}

func TestHistoryCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No questions answered yet.")
}

func TestHistoryCmd_FiltersByUser(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	_, err := execute(t, "", "ask", doc.ID, "annual leave", "--user", "alice")
	require.NoError(t, err)
	_, err = execute(t, "", "ask", doc.ID, "sick leave", "--user", "bob")
	require.NoError(t, err)

	out, err := execute(t, "", "history", doc.ID, "--user", "bob")

	require.NoError(t, err)
	assert.Contains(t, out, "Q: sick leave")
	assert.NotContains(t, out, "Q: annual leave")
	assert.Contains(t, out, "Total: 1 entries")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", firstLine("one"))
	assert.Equal(t, "one ...", firstLine("one\ntwo"))
}
