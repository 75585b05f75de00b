package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func chunk(id string, pos int, embedding ...float32) domain.Chunk {
	return domain.Chunk{ID: id, Content: "text " + id, Position: pos, Embedding: embedding}
}

func TestVectorStore_QueryRanksByCosine(t *testing.T) {
	store := setupTestStore(t)
	vectors := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vectors.Store(ctx, "d1", []domain.Chunk{
		chunk("c0", 0, 0, 1),
		chunk("c1", 1, 1, 0),
		chunk("c2", 2, 0.9, 0.1),
		chunk("c3", 3, -1, 0),
	}))

	got, err := vectors.Query(ctx, "d1", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)
	assert.Equal(t, "c0", got[2].ID)
	assert.Equal(t, "d1", got[0].DocumentID)
	assert.Equal(t, "text c1", got[0].Content)
	assert.Equal(t, []float32{1, 0}, got[0].Embedding)
}

func TestVectorStore_TiesKeepInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	vectors := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vectors.Store(ctx, "d1", []domain.Chunk{
		chunk("first", 0, 1, 1),
		chunk("second", 1, 2, 2),
	}))

	got, err := vectors.Query(ctx, "d1", []float32{1, 1}, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestVectorStore_IsolatedPerDocument(t *testing.T) {
	store := setupTestStore(t)
	vectors := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vectors.Store(ctx, "d1", []domain.Chunk{chunk("a", 0, 1, 0)}))
	require.NoError(t, vectors.Store(ctx, "d2", []domain.Chunk{chunk("b", 0, 1, 0)}))

	got, err := vectors.Query(ctx, "d2", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestVectorStore_ClearRemovesChunks(t *testing.T) {
	store := setupTestStore(t)
	vectors := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vectors.Store(ctx, "d1", []domain.Chunk{chunk("a", 0, 1, 0)}))
	require.NoError(t, vectors.Clear(ctx, "d1"))

	got, err := vectors.Query(ctx, "d1", []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVectorStore_UnknownDocumentEmpty(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.VectorStore().Query(context.Background(), "missing", []float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVectorStore_StoreEmptyIsNoop(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.VectorStore().Store(context.Background(), "d1", nil))
}

func TestVectorStore_ClosedDatabaseWrapsStorage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	vectors := store.VectorStore()
	require.NoError(t, store.Close())

	_, err = vectors.Query(context.Background(), "d1", []float32{1}, 3)
	assert.ErrorIs(t, err, domain.ErrStorage)

	err = vectors.Store(context.Background(), "d1", []domain.Chunk{chunk("a", 0, 1)})
	assert.ErrorIs(t, err, domain.ErrStorage)

	assert.NoError(t, vectors.Close())
}
