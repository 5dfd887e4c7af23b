package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/chunker"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: chunk, embed, index, persist.
type IngestService struct {
	chunker          *chunker.Chunker
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	searchEngine     driven.SearchEngine
	docStore         driven.DocumentStore
	dimension        int
}

// NewIngestService creates a new ingestion service. dimension is the
// dense index's configured vector size; embeddings of any other size
// are rejected as a configuration error.
func NewIngestService(
	ck *chunker.Chunker,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	searchEngine driven.SearchEngine,
	docStore driven.DocumentStore,
	dimension int,
) *IngestService {
	return &IngestService{
		chunker:          ck,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		searchEngine:     searchEngine,
		docStore:         docStore,
		dimension:        dimension,
	}
}

// Ingest chunks, embeds, and indexes a document.
//
// Ordering matters: chunk IDs reach the sparse index only after all
// embeddings are committed to the dense index and the chunks are
// persisted, so a half-ingested document is never visible to queries.
// A failure part-way leaves already-written vectors behind; re-ingesting
// the same content overwrites them because chunk IDs are deterministic.
func (s *IngestService) Ingest(ctx context.Context, title, content string) (*driving.IngestResult, error) {
	logger.Section("Ingestion")

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty document content", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: empty document title", domain.ErrInvalidInput)
	}

	doc := domain.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	logger.Debug("Document %s: %q (%d bytes)", doc.ID, title, len(content))

	chunks, err := s.chunker.Split(doc.ID, content)
	if err != nil {
		return nil, fmt.Errorf("chunking document: %w", err)
	}
	doc.ChunkCount = len(chunks)
	logger.Debug("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	for i := range embeddings {
		if len(embeddings[i]) != s.dimension {
			return nil, &domain.ConfigError{
				Reason: fmt.Sprintf("embedding dimension %d does not match index dimension %d (model %s)",
					len(embeddings[i]), s.dimension, s.embeddingService.ModelName()),
			}
		}
		chunks[i].Embedding = embeddings[i]
	}

	for i := range chunks {
		if err := s.vectorIndex.Add(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
			return nil, fmt.Errorf("indexing chunk %s vector: %w", chunks[i].ID, err)
		}
	}
	logger.Debug("Dense index: %d vectors upserted", len(chunks))

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("saving chunks: %w", err)
	}

	// Sparse add last: this is the visibility commit point for the document.
	for i := range chunks {
		if err := s.searchEngine.Index(ctx, chunks[i]); err != nil {
			return nil, fmt.Errorf("indexing chunk %s keywords: %w", chunks[i].ID, err)
		}
	}
	logger.Info("Ingested %s: %d chunks", doc.ID, len(chunks))

	// Don't return raw content with the result
	doc.Content = ""

	return &driving.IngestResult{
		Document:       doc,
		ChunksIngested: len(chunks),
	}, nil
}

// RebuildSparseIndex repopulates the sparse index from persisted chunks.
// Called at startup when the document store is durable but the BM25
// index lives in process memory.
func (s *IngestService) RebuildSparseIndex(ctx context.Context) (int, error) {
	chunks, err := s.docStore.AllChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading chunks: %w", err)
	}

	for i := range chunks {
		if err := s.searchEngine.Index(ctx, chunks[i]); err != nil {
			return 0, fmt.Errorf("indexing chunk %s: %w", chunks[i].ID, err)
		}
		if len(chunks[i].Embedding) == s.dimension {
			if err := s.vectorIndex.Add(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
				return 0, fmt.Errorf("indexing chunk %s vector: %w", chunks[i].ID, err)
			}
		}
	}

	logger.Info("Rebuilt indexes from %d persisted chunks", len(chunks))
	return len(chunks), nil
}

// DeleteDocument removes a document from every index and the store.
// Sparse removal happens first so the document stops being queryable
// immediately.
func (s *IngestService) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return fmt.Errorf("loading document %s: %w", documentID, err)
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("loading chunks for %s: %w", documentID, err)
	}

	for i := range chunks {
		if err := s.searchEngine.Delete(ctx, chunks[i].ID); err != nil {
			return fmt.Errorf("removing chunk %s from sparse index: %w", chunks[i].ID, err)
		}
		if err := s.vectorIndex.Delete(ctx, chunks[i].ID); err != nil {
			return fmt.Errorf("removing chunk %s from dense index: %w", chunks[i].ID, err)
		}
	}

	return s.docStore.DeleteDocument(ctx, documentID)
}
