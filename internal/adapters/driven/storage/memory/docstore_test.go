package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestDocumentStore_SaveGetDelete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "d1", Title: "Handbook", Content: "text"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	// Mutating the caller's copy must not change the stored document.
	doc.Title = "changed"

	got, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Handbook", got.Title)

	require.NoError(t, store.DeleteDocument(ctx, "d1"))
	_, err = store.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveNil(t *testing.T) {
	assert.ErrorIs(t, NewDocumentStore().SaveDocument(context.Background(), nil), domain.ErrInvalidInput)
}

func TestDocumentStore_ListNewestFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "old", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "new", CreatedAt: now}))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[1].ID)
}

func TestDocumentStore_ListEmpty(t *testing.T) {
	docs, err := NewDocumentStore().ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
