package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat [doc-id]", chatCmd.Use)
	assert.NotNil(t, chatCmd.Flags().Lookup("plain"))
	assert.NotNil(t, chatCmd.Flags().Lookup("user"))
}

func TestChatCmd_NoService(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "", "chat", "doc-1", "--plain")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat service not configured")
}

func TestChatCmd_UnknownDocument(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "chat", "missing", "--plain")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatCmd_LineMode(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "How much annual leave\n\nexit\nnever asked\n", "chat", doc.ID, "--plain", "--user", "sam")

	require.NoError(t, err)
	assert.Contains(t, out, "Chatting about "+doc.ID)
	assert.Contains(t, out, domain.TypingIndicator)
	assert.Contains(t, out, "Annual leave is 20 days per year.")
	assert.Contains(t, out, "[tier: keyword] (degraded)")

	ts.chat.Wait()
	records, err := ts.documents.History(t.Context(), domain.HistoryFilter{Username: "sam"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "How much annual leave", records[0].Question)
}

func TestChatCmd_LineModeEndsAtEOF(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "sick leave", "chat", doc.ID, "--plain")

	require.NoError(t, err)
	assert.Contains(t, out, "doctor's note")
}
