// Package rank implements exact cosine ranking shared by the vector stores
// that score in process.
package rank

import (
	"math"
	"sort"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// maxDistance is returned for vectors that cannot be compared.
const maxDistance = 2.0

// precision is the number of decimal places distances are rounded to, so
// vectors at the same angle compare equal.
const precision = 1e12

// CosineDistance returns 1 - cos(a, b), in [0, 2], rounded to 12 decimal
// places. Vectors of different length or with zero magnitude are maximally
// distant.
func CosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return maxDistance
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return maxDistance
	}

	distance := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	return math.Round(distance*precision) / precision
}

// TopK returns at most k chunks ordered by ascending cosine distance to
// query. Chunks must be passed in insertion order; ties keep that order.
func TopK(chunks []domain.Chunk, query []float32, k int) []domain.Chunk {
	if k <= 0 || len(chunks) == 0 {
		return nil
	}

	type scored struct {
		chunk    domain.Chunk
		distance float64
	}
	ranked := make([]scored, len(chunks))
	for i, c := range chunks {
		ranked[i] = scored{chunk: c, distance: CosineDistance(c.Embedding, query)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	result := make([]domain.Chunk, k)
	for i := 0; i < k; i++ {
		result[i] = ranked[i].chunk
	}
	return result
}
