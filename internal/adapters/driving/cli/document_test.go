package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestRootCmd_HasDocumentCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"ingest", "docs", "doc", "delete", "reprocess", "ask", "history", "chat", "tiers", "watch"} {
		assert.Contains(t, names, want)
	}
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_UploadsFile(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	path := writeFile(t, "handbook.md", "# Handbook\n\n"+handbook)

	out, err := execute(t, "", "ingest", path, "--title", "Staff Handbook")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested:")
	assert.Contains(t, out, "Title:   Staff Handbook")
	assert.Contains(t, out, "Type:    text/markdown")
	assert.Contains(t, out, "Document processed without AI.")

	docs, err := ts.documents.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Staff Handbook", docs[0].Title)
	assert.Equal(t, "cli", docs[0].Metadata["source"])
}

func TestIngestCmd_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ingest", "/does/not/exist.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func writeFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leave.txt"), []byte(handbook), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "policies"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policies", "travel.md"), []byte("# Travel\n\nBook through the portal."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".draft.txt"), []byte("hidden"), 0o600))
	return dir
}

func TestIngestCmd_UploadsFolder(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	dir := writeFolder(t)

	out, err := execute(t, "", "ingest", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 2 documents from "+dir)

	docs, err := ts.documents.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	for _, doc := range docs {
		assert.Equal(t, "filesystem", doc.Metadata["source"])
	}
}

func TestIngestCmd_FolderSkipsUploaded(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	dir := writeFolder(t)

	_, err := execute(t, "", "ingest", dir)
	require.NoError(t, err)

	out, err := execute(t, "", "ingest", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 0 documents")
	assert.Contains(t, out, "Skipped 2 already uploaded")
}

func TestIngestCmd_FolderRejectsTitle(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ingest", t.TempDir(), "--title", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title cannot be used with a directory")
}

func TestIngestCmd_FolderWithoutFolderService(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	SetServices(&Services{Document: ts.documents, Chat: ts.chat, Settings: ts.settings})

	_, err := execute(t, "", "ingest", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "folder service not configured")
}

func TestIngestCmd_NoService(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "", "ingest", "file.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document service not configured")
}

func TestDocsCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "docs")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded yet.")
}

func TestDocsCmd_ListsDocuments(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "", "docs")

	require.NoError(t, err)
	assert.Contains(t, out, doc.ID)
	assert.Contains(t, out, "Title:    Handbook")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocCmd_ShowsDetails(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "", "doc", doc.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Document: "+doc.ID)
	assert.Contains(t, out, "Title:     Handbook")
	assert.Contains(t, out, "Questions: 0")
	assert.Contains(t, out, "Summary:")
	assert.Contains(t, out, "mime_type: text/plain")
}

func TestDocCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "doc", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCmd_RemovesDocument(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "", "delete", doc.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted document: "+doc.ID)

	_, err = ts.documents.Get(context.Background(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReprocessCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	doc := ingestText(t, ts, "Handbook", handbook)

	out, err := execute(t, "", "reprocess", doc.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Reprocessed document: "+doc.ID+" (Handbook)")
}
