package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSearchUnavailable indicates the sparse index is not configured.
	ErrSearchUnavailable = errors.New("search index unavailable")

	// ErrVectorIndexUnavailable indicates the dense index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// ConfigError indicates invalid or inconsistent configuration, such as
// a chunk overlap not smaller than the chunk size or a vector dimension
// mismatch between the embedding provider and the dense index.
// It is fatal at startup or first use and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// ProviderError indicates a failure in an external collaborator: the
// embedding provider, the dense index, or the language model. It is
// propagated to the caller as a request-level failure; retry policy is
// a caller decision.
type ProviderError struct {
	// Provider names the failing collaborator, e.g. "ollama", "qdrant".
	Provider string

	// Err is the underlying cause.
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// BudgetError indicates the context budget is smaller than the single
// highest-ranked chunk, so no context can be assembled without silently
// dropping the top result. It signals misconfiguration.
type BudgetError struct {
	// Budget is the configured context budget in bytes.
	Budget int

	// ChunkID and ChunkSize identify the chunk that did not fit.
	ChunkID   string
	ChunkSize int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("context budget %d too small for top chunk %s (%d bytes)",
		e.Budget, e.ChunkID, e.ChunkSize)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsBudgetError reports whether err is (or wraps) a BudgetError.
func IsBudgetError(err error) bool {
	var be *BudgetError
	return errors.As(err, &be)
}
