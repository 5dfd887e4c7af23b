package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestNewIndex_RejectsInvalidDimension(t *testing.T) {
	_, err := NewIndex(0)
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestAdd_RejectsDimensionMismatch(t *testing.T) {
	idx, err := NewIndex(3)
	require.NoError(t, err)

	err = idx.Add(context.Background(), "c1", []float32{1, 0})
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	idx, err := NewIndex(3)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "exact", []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, "close", []float32{1, 1, 0}))
	require.NoError(t, idx.Add(ctx, "orthogonal", []float32{0, 0, 1}))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "exact", hits[0].ChunkID)
	assert.Equal(t, "close", hits[1].ChunkID)
	assert.Equal(t, "orthogonal", hits[2].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.InDelta(t, 0.0, hits[2].Similarity, 1e-9)
}

func TestSearch_RespectsK(t *testing.T) {
	idx, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "c1", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "c2", []float32{0.9, 0.1}))
	require.NoError(t, idx.Add(ctx, "c3", []float32{0.8, 0.2}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestAdd_OverwritesExistingVector(t *testing.T) {
	idx, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "c1", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "c1", []float32{0, 1}))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestDelete_RemovesVector(t *testing.T) {
	idx, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "c1", []float32{1, 0}))
	require.NoError(t, idx.Delete(ctx, "c1"))
	assert.Equal(t, 0, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
