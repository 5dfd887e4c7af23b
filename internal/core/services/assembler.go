package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Assembler packs retrieved chunks into a generation context without
// exceeding a character budget.
type Assembler struct {
	docStore driven.DocumentStore
	budget   int
}

// NewAssembler creates a context assembler with the given character budget.
func NewAssembler(docStore driven.DocumentStore, budget int) (*Assembler, error) {
	if budget <= 0 {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("context budget must be positive, got %d", budget)}
	}
	return &Assembler{docStore: docStore, budget: budget}, nil
}

// Budget returns the configured character budget.
func (a *Assembler) Budget() int {
	return a.budget
}

// Assemble walks the fused ranking in order, hydrates each chunk from
// the store, drops duplicates, and greedily accumulates chunks until
// the next one would exceed the budget. Chunks that no longer exist are
// skipped silently: the indexes may briefly run ahead of a deletion.
//
// A BudgetError is returned only when the top-ranked surviving chunk
// alone exceeds the budget; in every other case the context simply
// holds fewer chunks.
func (a *Assembler) Assemble(ctx context.Context, ranking []domain.RetrievalResult) (*domain.FusedContext, error) {
	fused := &domain.FusedContext{}
	seen := make(map[string]bool, len(ranking))

	for _, res := range ranking {
		if seen[res.ChunkID] {
			continue
		}
		seen[res.ChunkID] = true

		chunk, err := a.docStore.GetChunk(ctx, res.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Chunk %s vanished between retrieval and assembly, skipping", res.ChunkID)
				continue
			}
			return nil, fmt.Errorf("hydrating chunk %s: %w", res.ChunkID, err)
		}

		size := len(chunk.Content)
		if fused.Size+size > a.budget {
			if len(fused.Chunks) == 0 {
				return nil, &domain.BudgetError{
					Budget:    a.budget,
					ChunkID:   chunk.ID,
					ChunkSize: size,
				}
			}
			// Keep walking: a smaller lower-ranked chunk may still fit
			continue
		}

		fused.Chunks = append(fused.Chunks, *chunk)
		fused.Size += size
	}

	logger.Debug("Assembled context: %d chunks, %d/%d bytes", len(fused.Chunks), fused.Size, a.budget)
	return fused, nil
}
