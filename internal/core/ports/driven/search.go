package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// SearchEngine provides sparse keyword search over indexed chunks.
// Backed by an in-process BM25 inverted index; no external calls.
type SearchEngine interface {
	// Index adds or updates a chunk in the search index. Re-indexing
	// the same chunk ID replaces its postings.
	Index(ctx context.Context, chunk domain.Chunk) error

	// Delete removes a chunk from the search index.
	Delete(ctx context.Context, chunkID string) error

	// Search performs a keyword search and returns at most limit hits
	// sorted by score descending, ties broken by chunk ID ascending.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// Close releases resources.
	Close() error
}

// SearchHit represents a search result from the engine.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the BM25 relevance score. Always non-negative.
	Score float64
}
