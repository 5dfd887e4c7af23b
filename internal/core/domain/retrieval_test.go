package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFusionWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights FusionWeights
		wantErr bool
	}{
		{name: "equal weights", weights: FusionWeights{Sparse: 0.5, Dense: 0.5}},
		{name: "sparse only", weights: FusionWeights{Sparse: 1.0}},
		{name: "dense only", weights: FusionWeights{Dense: 1.0}},
		{name: "negative sparse", weights: FusionWeights{Sparse: -0.1, Dense: 0.5}, wantErr: true},
		{name: "negative dense", weights: FusionWeights{Sparse: 0.5, Dense: -0.1}, wantErr: true},
		{name: "both zero", weights: FusionWeights{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.True(t, IsConfigError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFusionWeights_IsZero(t *testing.T) {
	assert.True(t, FusionWeights{}.IsZero())
	assert.False(t, FusionWeights{Sparse: 0.5}.IsZero())
	assert.False(t, FusionWeights{Dense: 0.5}.IsZero())
}

func TestDefaultFusionWeights(t *testing.T) {
	w := DefaultFusionWeights()
	assert.InDelta(t, 0.5, w.Sparse, 1e-9)
	assert.InDelta(t, 0.5, w.Dense, 1e-9)
	assert.NoError(t, w.Validate())
}

func TestFusedContext_ChunkIDs(t *testing.T) {
	fused := FusedContext{
		Chunks: []Chunk{
			{ID: "c-2", Content: "beta"},
			{ID: "c-1", Content: "alpha"},
		},
		Size: 9,
	}

	assert.Equal(t, []string{"c-2", "c-1"}, fused.ChunkIDs())
}

func TestFusedContext_ChunkIDs_Empty(t *testing.T) {
	assert.Empty(t, FusedContext{}.ChunkIDs())
}
