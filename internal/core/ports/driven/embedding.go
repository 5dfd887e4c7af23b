package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is a pure mapping from text to a fixed-dimension vector; any
// caching beyond what the provider offers is out of scope.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm) for local inference
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order. A batch either succeeds entirely or fails entirely;
	// partial results are never returned.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is determined by the model and must match the dense index
	// configuration; a mismatch is a configuration error.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before accepting traffic.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
