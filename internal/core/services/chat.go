package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Generation defaults for answer synthesis.
const (
	defaultMaxTokens   = 1024
	defaultTemperature = 0.1
)

// promptTemplate is the fixed instruction scaffold for answer
// generation. Context blocks are inserted in assembler order.
const promptTemplate = `You are a helpful assistant that answers questions using only the provided context.
If the context does not contain the answer, say you don't know. Do not invent facts.

Context:
%s

Question: %s

Answer:`

// ChatService answers queries with retrieval-augmented generation.
// It is stateless between requests; no conversation history is kept.
type ChatService struct {
	retriever  *Retriever
	assembler  *Assembler
	llmService driven.LLMService
	topK       int
	weights    domain.FusionWeights
}

// NewChatService creates a new chat service. topK and weights are the
// defaults used when a request does not override them.
func NewChatService(
	retriever *Retriever,
	assembler *Assembler,
	llmService driven.LLMService,
	topK int,
	weights domain.FusionWeights,
) *ChatService {
	return &ChatService{
		retriever:  retriever,
		assembler:  assembler,
		llmService: llmService,
		topK:       topK,
		weights:    weights,
	}
}

// Ask runs the full query pipeline: hybrid retrieval, context assembly,
// and generation.
func (s *ChatService) Ask(ctx context.Context, query string, opts domain.AskOptions) (*domain.Answer, error) {
	logger.Section("Query Pipeline")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}
	weights := opts.Weights
	if weights.IsZero() {
		weights = s.weights
	}

	ranking, err := s.retriever.Retrieve(ctx, query, topK, weights)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	if len(ranking) == 0 {
		logger.Info("No relevant chunks found for query")
		return &domain.Answer{
			Text:    "I could not find any relevant documents to answer your question.",
			Sources: []string{},
		}, nil
	}

	fused, err := s.assembler.Assemble(ctx, ranking)
	if err != nil {
		return nil, fmt.Errorf("assembling context: %w", err)
	}

	prompt := buildPrompt(fused, query)
	logger.Debug("Prompt: %d bytes, %d context chunks", len(prompt), len(fused.Chunks))

	text, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: fused.ChunkIDs(),
	}, nil
}

// buildPrompt renders the fixed template with numbered context blocks.
func buildPrompt(fused *domain.FusedContext, query string) string {
	var b strings.Builder
	for i := range fused.Chunks {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, fused.Chunks[i].Content)
	}
	return fmt.Sprintf(promptTemplate, strings.TrimRight(b.String(), "\n"), query)
}
