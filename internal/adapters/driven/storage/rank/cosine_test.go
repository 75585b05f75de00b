package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1.0, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, CosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
}

func TestCosineDistance_Incomparable(t *testing.T) {
	assert.Equal(t, maxDistance, CosineDistance(nil, nil))
	assert.Equal(t, maxDistance, CosineDistance([]float32{1}, []float32{1, 0}))
	assert.Equal(t, maxDistance, CosineDistance([]float32{0, 0}, []float32{1, 0}))
}

func TestTopK_OrdersByDistance(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "far", Embedding: []float32{0, 1}},
		{ID: "near", Embedding: []float32{1, 0.1}},
		{ID: "exact", Embedding: []float32{1, 0}},
	}

	got := TopK(chunks, []float32{1, 0}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].ID)
	assert.Equal(t, "near", got[1].ID)
}

func TestTopK_TiesKeepInsertionOrder(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "a", Embedding: []float32{1, 1}},
		{ID: "b", Embedding: []float32{2, 2}},
		{ID: "c", Embedding: []float32{3, 3}},
	}

	got := TopK(chunks, []float32{1, 1}, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestCosineDistance_ParallelVectorsAreEqual(t *testing.T) {
	query := []float32{1, 1}
	a := CosineDistance([]float32{1, 1}, query)
	b := CosineDistance([]float32{2, 2}, query)
	c := CosineDistance([]float32{3, 3}, query)

	assert.Equal(t, 0.0, a)
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestTopK_TiesKeepInsertionOrderAtAnyScale(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "c", Embedding: []float32{3, 3}},
		{ID: "off", Embedding: []float32{1, 0}},
		{ID: "a", Embedding: []float32{0.1, 0.1}},
		{ID: "b", Embedding: []float32{7, 7}},
	}

	got := TopK(chunks, []float32{1, 1}, 4)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"c", "a", "b", "off"}, []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
}

func TestTopK_Bounds(t *testing.T) {
	chunks := []domain.Chunk{{ID: "only", Embedding: []float32{1}}}

	assert.Len(t, TopK(chunks, []float32{1}, 3), 1)
	assert.Empty(t, TopK(chunks, []float32{1}, 0))
	assert.Empty(t, TopK(nil, []float32{1}, 3))
}
