package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/chunker"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func newTestIngestService(t *testing.T, embed *mockEmbeddingService, vec *mockVectorIndex, search *mockSearchEngine) (*IngestService, *memory.DocumentStore) {
	t.Helper()
	ck, err := chunker.New(50, 10)
	require.NoError(t, err)
	store := memory.NewDocumentStore()
	return NewIngestService(ck, embed, vec, search, store, len(embed.embedding)), store
}

func TestIngest_Success(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{0.1, 0.2, 0.3}}
	vec := &mockVectorIndex{}
	search := &mockSearchEngine{}
	svc, store := newTestIngestService(t, embed, vec, search)

	content := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 5)
	result, err := svc.Ingest(context.Background(), "Foxes", content)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Document.ID)
	assert.Equal(t, "Foxes", result.Document.Title)
	assert.Greater(t, result.ChunksIngested, 1)
	assert.Equal(t, result.ChunksIngested, result.Document.ChunkCount)
	// Raw content is not echoed back
	assert.Empty(t, result.Document.Content)

	// Every chunk reached both indexes
	assert.Len(t, vec.added, result.ChunksIngested)
	assert.Len(t, search.indexed, result.ChunksIngested)

	// And the store holds the persisted document with embeddings
	chunks, err := store.GetChunks(context.Background(), result.Document.ID)
	require.NoError(t, err)
	require.Len(t, chunks, result.ChunksIngested)
	for _, c := range chunks {
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, c.Embedding)
	}
}

func TestIngest_EmptyContent(t *testing.T) {
	svc, _ := newTestIngestService(t,
		&mockEmbeddingService{embedding: []float32{1}}, &mockVectorIndex{}, &mockSearchEngine{})

	_, err := svc.Ingest(context.Background(), "Title", "   \n\t  ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_EmptyTitle(t *testing.T) {
	svc, _ := newTestIngestService(t,
		&mockEmbeddingService{embedding: []float32{1}}, &mockVectorIndex{}, &mockSearchEngine{})

	_, err := svc.Ingest(context.Background(), "", "some content")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_EmbeddingFailure(t *testing.T) {
	embed := &mockEmbeddingService{embedErr: errors.New("ollama unreachable")}
	vec := &mockVectorIndex{}
	search := &mockSearchEngine{}
	svc, _ := newTestIngestService(t, embed, vec, search)

	_, err := svc.Ingest(context.Background(), "Title", "some content")

	require.Error(t, err)
	// Nothing was indexed: the document never became visible
	assert.Empty(t, vec.added)
	assert.Empty(t, search.indexed)
}

func TestIngest_DimensionMismatch(t *testing.T) {
	ck, err := chunker.New(50, 10)
	require.NoError(t, err)
	embed := &mockEmbeddingService{embedding: []float32{0.1, 0.2}}
	search := &mockSearchEngine{}
	// Index configured for 3 dimensions, model returns 2
	svc := NewIngestService(ck, embed, &mockVectorIndex{}, search, memory.NewDocumentStore(), 3)

	_, err = svc.Ingest(context.Background(), "Title", "some content")

	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.Empty(t, search.indexed)
}

func TestIngest_VectorIndexFailureKeepsDocumentInvisible(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 2, 3}}
	vec := &mockVectorIndex{addErr: errors.New("qdrant down")}
	search := &mockSearchEngine{}
	svc, store := newTestIngestService(t, embed, vec, search)

	_, err := svc.Ingest(context.Background(), "Title", "some content")

	require.Error(t, err)
	// Sparse add never ran, so queries cannot see the document
	assert.Empty(t, search.indexed)

	docs, err := store.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIngest_SparseAddHappensAfterPersist(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 2, 3}}
	vec := &mockVectorIndex{}
	search := &mockSearchEngine{}
	svc, store := newTestIngestService(t, embed, vec, search)

	result, err := svc.Ingest(context.Background(), "Title", "some content")
	require.NoError(t, err)

	// Everything the sparse index knows about must be hydratable
	for _, c := range search.indexed {
		_, err := store.GetChunk(context.Background(), c.ID)
		assert.NoError(t, err)
	}
	assert.Equal(t, result.ChunksIngested, len(search.indexed))
}

func TestRebuildSparseIndex(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 2, 3}}
	search := &mockSearchEngine{}
	svc, store := newTestIngestService(t, embed, &mockVectorIndex{}, search)

	require.NoError(t, store.SaveChunks(context.Background(), []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Content: "alpha", Position: 0, Embedding: []float32{1, 2, 3}},
		{ID: "c-2", DocumentID: "doc-1", Content: "beta", Position: 1, Embedding: []float32{4, 5, 6}},
	}))

	n, err := svc.RebuildSparseIndex(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, search.indexed, 2)
}

func TestDeleteDocument_RemovesFromAllIndexes(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 2, 3}}
	vec := &mockVectorIndex{}
	search := &mockSearchEngine{}
	svc, store := newTestIngestService(t, embed, vec, search)

	result, err := svc.Ingest(context.Background(), "Title", "some content")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(context.Background(), result.Document.ID))

	assert.Len(t, search.deleted, result.ChunksIngested)
	assert.Len(t, vec.deleted, result.ChunksIngested)

	_, err = store.GetDocument(context.Background(), result.Document.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument_UnknownID(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 2, 3}}
	search := &mockSearchEngine{}
	svc, _ := newTestIngestService(t, embed, &mockVectorIndex{}, search)

	err := svc.DeleteDocument(context.Background(), "no-such-document")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, search.deleted)
}
