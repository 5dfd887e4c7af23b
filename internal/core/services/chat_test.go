package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

func newTestChatService(t *testing.T, search *mockSearchEngine, vec *mockVectorIndex, llm *mockLLMService, chunks ...domain.Chunk) *ChatService {
	t.Helper()
	store := memory.NewDocumentStore()
	if len(chunks) > 0 {
		require.NoError(t, store.SaveChunks(context.Background(), chunks))
	}
	retriever := NewRetriever(search, vec, &mockEmbeddingService{embedding: []float32{1, 0}})
	assembler, err := NewAssembler(store, 4000)
	require.NoError(t, err)
	return NewChatService(retriever, assembler, llm, 5, domain.DefaultFusionWeights())
}

func TestAsk_Success(t *testing.T) {
	llm := &mockLLMService{response: "The sky is blue because of Rayleigh scattering."}
	svc := newTestChatService(t,
		&mockSearchEngine{hits: []driven.SearchHit{{ChunkID: "c-1", Score: 2.0}}},
		&mockVectorIndex{hits: []driven.VectorHit{{ChunkID: "c-2", Similarity: 0.9}}},
		llm,
		domain.Chunk{ID: "c-1", DocumentID: "doc-1", Content: "Rayleigh scattering colours the sky.", Position: 0},
		domain.Chunk{ID: "c-2", DocumentID: "doc-1", Content: "Sunlight and the atmosphere.", Position: 1},
	)

	answer, err := svc.Ask(context.Background(), "Why is the sky blue?", domain.AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, "The sky is blue because of Rayleigh scattering.", answer.Text)
	assert.Len(t, answer.Sources, 2)

	// The prompt carries the context blocks and the question
	assert.Contains(t, llm.lastPrompt, "Rayleigh scattering colours the sky.")
	assert.Contains(t, llm.lastPrompt, "Sunlight and the atmosphere.")
	assert.Contains(t, llm.lastPrompt, "Question: Why is the sky blue?")
}

func TestAsk_EmptyQuery(t *testing.T) {
	svc := newTestChatService(t, &mockSearchEngine{}, &mockVectorIndex{}, &mockLLMService{})

	_, err := svc.Ask(context.Background(), "  ", domain.AskOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NoResultsShortCircuitsGeneration(t *testing.T) {
	llm := &mockLLMService{generateErr: errors.New("must not be called")}
	svc := newTestChatService(t, &mockSearchEngine{}, &mockVectorIndex{}, llm)

	answer, err := svc.Ask(context.Background(), "anything at all", domain.AskOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)
	assert.Empty(t, answer.Sources)
}

func TestAsk_GenerationFailure(t *testing.T) {
	llm := &mockLLMService{generateErr: errors.New("model timeout")}
	svc := newTestChatService(t,
		&mockSearchEngine{hits: []driven.SearchHit{{ChunkID: "c-1", Score: 1.0}}},
		&mockVectorIndex{},
		llm,
		domain.Chunk{ID: "c-1", DocumentID: "doc-1", Content: "context", Position: 0},
	)

	_, err := svc.Ask(context.Background(), "question", domain.AskOptions{})

	assert.Error(t, err)
}

func TestAsk_OptionsOverrideDefaults(t *testing.T) {
	// topK=1 keeps only the higher fused result
	svc := newTestChatService(t,
		&mockSearchEngine{hits: []driven.SearchHit{
			{ChunkID: "c-1", Score: 5.0},
			{ChunkID: "c-2", Score: 1.0},
		}},
		&mockVectorIndex{},
		&mockLLMService{},
		domain.Chunk{ID: "c-1", DocumentID: "doc-1", Content: "best", Position: 0},
		domain.Chunk{ID: "c-2", DocumentID: "doc-1", Content: "worst", Position: 1},
	)

	answer, err := svc.Ask(context.Background(), "question", domain.AskOptions{TopK: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"c-1"}, answer.Sources)
}

func TestAsk_SourcesFollowAssemblerOrder(t *testing.T) {
	svc := newTestChatService(t,
		&mockSearchEngine{hits: []driven.SearchHit{
			{ChunkID: "c-low", Score: 1.0},
			{ChunkID: "c-high", Score: 9.0},
		}},
		&mockVectorIndex{},
		&mockLLMService{},
		domain.Chunk{ID: "c-low", DocumentID: "doc-1", Content: "low", Position: 0},
		domain.Chunk{ID: "c-high", DocumentID: "doc-1", Content: "high", Position: 1},
	)

	answer, err := svc.Ask(context.Background(), "question", domain.AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"c-high", "c-low"}, answer.Sources)
}

func TestAsk_BudgetErrorPropagates(t *testing.T) {
	store := memory.NewDocumentStore()
	bigChunk := domain.Chunk{ID: "c-1", DocumentID: "doc-1", Content: string(make([]byte, 100)), Position: 0}
	require.NoError(t, store.SaveChunks(context.Background(), []domain.Chunk{bigChunk}))

	retriever := NewRetriever(
		&mockSearchEngine{hits: []driven.SearchHit{{ChunkID: "c-1", Score: 1.0}}},
		&mockVectorIndex{},
		&mockEmbeddingService{embedding: []float32{1, 0}},
	)
	assembler, err := NewAssembler(store, 10)
	require.NoError(t, err)
	svc := NewChatService(retriever, assembler, &mockLLMService{}, 5, domain.DefaultFusionWeights())

	_, err = svc.Ask(context.Background(), "question", domain.AskOptions{})

	require.Error(t, err)
	assert.True(t, domain.IsBudgetError(err))
}
