package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Retriever performs hybrid retrieval: sparse keyword search and dense
// similarity search run concurrently, their scores are normalised to a
// common scale, and a weighted sum produces the fused ranking.
type Retriever struct {
	searchEngine     driven.SearchEngine
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewRetriever creates a new hybrid retriever.
func NewRetriever(
	searchEngine driven.SearchEngine,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *Retriever {
	return &Retriever{
		searchEngine:     searchEngine,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// Retrieve returns at most topK fused results for the query, sorted by
// fused score descending with ties broken by chunk ID ascending. If one
// ranker fails or returns nothing, the other side carries the ranking;
// only both failing is an error.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, topK int, weights domain.FusionWeights,
) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}
	if weights.IsZero() {
		weights = domain.DefaultFusionWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Hybrid Retrieval")
	logger.Debug("Query: %q, topK: %d, weights: sparse=%.2f dense=%.2f",
		query, topK, weights.Sparse, weights.Dense)

	var sparseResults, denseResults []domain.RetrievalResult
	var sparseErr, denseErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		sparseResults, sparseErr = r.sparseSearch(ctx, query, topK)
	}()

	go func() {
		defer wg.Done()
		denseResults, denseErr = r.denseSearch(ctx, query, topK)
	}()

	wg.Wait()

	if sparseErr != nil && denseErr != nil {
		return nil, fmt.Errorf("hybrid retrieval: sparse=%w, dense=%w", sparseErr, denseErr)
	}
	if sparseErr != nil {
		logger.Warn("Sparse search failed, using dense results only: %v", sparseErr)
	}
	if denseErr != nil {
		logger.Warn("Dense search failed, using sparse results only: %v", denseErr)
	}

	logger.Debug("Sparse hits: %d, dense hits: %d", len(sparseResults), len(denseResults))

	fused := fuse(sparseResults, denseResults, weights)
	if len(fused) > topK {
		fused = fused[:topK]
	}

	logger.Info("Fused ranking: %d results", len(fused))
	return fused, nil
}

// sparseSearch runs the BM25 keyword search.
func (r *Retriever) sparseSearch(ctx context.Context, query string, limit int) ([]domain.RetrievalResult, error) {
	if r.searchEngine == nil {
		return nil, domain.ErrSearchUnavailable
	}

	hits, err := r.searchEngine.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sparse search: %w", err)
	}

	results := make([]domain.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RetrievalResult{
			ChunkID: hit.ChunkID,
			Score:   hit.Score,
			Source:  domain.SourceSparse,
		}
	}
	return results, nil
}

// denseSearch embeds the query and runs the similarity search.
func (r *Retriever) denseSearch(ctx context.Context, query string, limit int) ([]domain.RetrievalResult, error) {
	if r.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if r.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := r.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := r.vectorIndex.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("dense search: %w", err)
	}

	results := make([]domain.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RetrievalResult{
			ChunkID: hit.ChunkID,
			Score:   hit.Similarity,
			Source:  domain.SourceDense,
		}
	}
	return results, nil
}

// fuse merges two ranked lists with weighted min-max normalised scores.
// A chunk appearing in only one list gets 0 for the missing side.
func fuse(sparse, dense []domain.RetrievalResult, weights domain.FusionWeights) []domain.RetrievalResult {
	sparseNorm := normalise(sparse)
	denseNorm := normalise(dense)

	seen := make(map[string]bool)
	fused := make([]domain.RetrievalResult, 0, len(sparseNorm)+len(denseNorm))
	for id := range sparseNorm {
		seen[id] = true
	}
	for id := range denseNorm {
		seen[id] = true
	}

	for id := range seen {
		score := weights.Sparse*sparseNorm[id] + weights.Dense*denseNorm[id]
		fused = append(fused, domain.RetrievalResult{
			ChunkID: id,
			Score:   score,
			Source:  domain.SourceFused,
		})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].ChunkID < fused[j].ChunkID
	})

	return fused
}

// normalise maps raw scores to [0,1] with min-max scaling. A single-item
// list, or one where all scores are equal, maps to 1.0 so the ranker
// still contributes its full weight.
func normalise(results []domain.RetrievalResult) map[string]float64 {
	norm := make(map[string]float64, len(results))
	if len(results) == 0 {
		return norm
	}

	minScore, maxScore := results[0].Score, results[0].Score
	for _, res := range results[1:] {
		if res.Score < minScore {
			minScore = res.Score
		}
		if res.Score > maxScore {
			maxScore = res.Score
		}
	}

	scoreRange := maxScore - minScore
	for _, res := range results {
		if scoreRange == 0 {
			norm[res.ChunkID] = 1.0
		} else {
			norm[res.ChunkID] = (res.Score - minScore) / scoreRange
		}
	}
	return norm
}
