package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ChatService drives the query pipeline: hybrid retrieval, context
// assembly, and answer generation.
type ChatService interface {
	// Ask answers a natural-language query from the indexed corpus.
	Ask(ctx context.Context, query string, opts domain.AskOptions) (*domain.Answer, error)
}
