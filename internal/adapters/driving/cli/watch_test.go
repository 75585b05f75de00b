package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// stubFolders replays canned changes without touching the filesystem.
type stubFolders struct {
	report   *domain.SyncReport
	syncErr  error
	changes  []domain.Change
	applyErr error
	watchErr error

	synced  []string
	watched []string
}

func (s *stubFolders) Sync(_ context.Context, root string) (*domain.SyncReport, error) {
	s.synced = append(s.synced, root)
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	if s.report == nil {
		return &domain.SyncReport{}, nil
	}
	return s.report, nil
}

func (s *stubFolders) Watch(_ context.Context, root string, onChange func(domain.Change, error)) error {
	s.watched = append(s.watched, root)
	if s.watchErr != nil {
		return s.watchErr
	}
	for _, c := range s.changes {
		onChange(c, s.applyErr)
	}
	return nil
}

func useFolders(t *testing.T, folders *stubFolders) {
	t.Helper()
	ts, cleanup := setupTestServices()
	t.Cleanup(cleanup)
	SetServices(&Services{Document: ts.documents, Chat: ts.chat, Settings: ts.settings, Folders: folders})
}

func TestWatchCmd_SyncsThenWatches(t *testing.T) {
	folders := &stubFolders{
		report: &domain.SyncReport{Ingested: []string{"a", "b"}, Skipped: 1},
		changes: []domain.Change{
			{Type: domain.ChangeCreated, Document: domain.RawDocument{URI: "/d/new.txt"}},
			{Type: domain.ChangeDeleted, Document: domain.RawDocument{URI: "/d/old.txt"}},
		},
	}
	useFolders(t, folders)
	dir := t.TempDir()

	out, err := execute(t, "", "watch", dir)

	require.NoError(t, err)
	assert.Equal(t, []string{dir}, folders.synced)
	assert.Equal(t, []string{dir}, folders.watched)
	assert.Contains(t, out, "Ingested 2 documents, skipped 1, failed 0")
	assert.Contains(t, out, "Watching "+dir)
	assert.Contains(t, out, "created  /d/new.txt")
	assert.Contains(t, out, "deleted  /d/old.txt")
	assert.Contains(t, out, "Stopped watching")
}

func TestWatchCmd_NoSync(t *testing.T) {
	folders := &stubFolders{}
	useFolders(t, folders)

	_, err := execute(t, "", "watch", t.TempDir(), "--no-sync")

	require.NoError(t, err)
	assert.Empty(t, folders.synced)
	assert.Len(t, folders.watched, 1)
}

func TestWatchCmd_ReportsApplyErrors(t *testing.T) {
	folders := &stubFolders{
		changes:  []domain.Change{{Type: domain.ChangeUpdated, Document: domain.RawDocument{URI: "/d/bad.png"}}},
		applyErr: domain.ErrUnsupportedType,
	}
	useFolders(t, folders)

	out, err := execute(t, "", "watch", t.TempDir(), "--no-sync")

	require.NoError(t, err)
	assert.Contains(t, out, "updated  /d/bad.png: ")
}

func TestWatchCmd_Errors(t *testing.T) {
	t.Run("sync failure", func(t *testing.T) {
		useFolders(t, &stubFolders{syncErr: domain.ErrNotFound})

		_, err := execute(t, "", "watch", t.TempDir())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("watch failure", func(t *testing.T) {
		useFolders(t, &stubFolders{watchErr: errors.New("too many watches")})

		_, err := execute(t, "", "watch", t.TempDir(), "--no-sync")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to watch folder: too many watches")
	})

	t.Run("not a directory", func(t *testing.T) {
		useFolders(t, &stubFolders{})
		path := writeFile(t, "file.txt", "x")

		_, err := execute(t, "", "watch", path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a directory")
	})

	t.Run("missing directory", func(t *testing.T) {
		useFolders(t, &stubFolders{})

		_, err := execute(t, "", "watch", "/does/not/exist")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open")
	})

	t.Run("no folder service", func(t *testing.T) {
		SetServices(nil)
		defer resetFlags()

		_, err := execute(t, "", "watch", t.TempDir())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "folder service not configured")
	})
}
