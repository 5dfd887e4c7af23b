package driven

import "context"

// LLMService provides text generation for answering queries.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o family) and compatible inference servers
type LLMService interface {
	// Generate produces a completion from a prompt. No retries are
	// performed at this layer; retry policy belongs to the caller.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before accepting traffic.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
