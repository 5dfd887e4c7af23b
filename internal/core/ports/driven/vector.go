package driven

import "context"

// VectorIndex provides dense similarity search over chunk embeddings.
// Storage and search are delegated to an external store (Qdrant in
// production, an in-process scan for tests); the adapter's only logic
// is translating identifiers and vectors to the store's wire format
// and mapping store failures into the error taxonomy.
type VectorIndex interface {
	// Add inserts or overwrites the vector for the given chunk ID.
	// Re-adding the same ID replaces the stored vector.
	Add(ctx context.Context, chunkID string, embedding []float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, chunkID string) error

	// Search finds the k nearest neighbours to the query vector,
	// sorted by similarity descending.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
