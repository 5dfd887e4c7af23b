package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ingest result", func(t *testing.T) {
		mockIngest := &mockIngestService{
			result: &driving.IngestResult{
				Document:       domain.Document{ID: "doc-1", Title: "Notes"},
				ChunksIngested: 4,
			},
		}

		ports := &Ports{Ingest: mockIngest, Chat: &mockChatService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := IngestInput{Title: "Notes", Content: "some content"}
		_, output, err := server.handleIngest(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, 4, output.ChunksIngested)
		assert.Equal(t, "Notes", mockIngest.lastTitle)
		assert.Equal(t, "some content", mockIngest.lastContent)
	})

	t.Run("returns error on ingest failure", func(t *testing.T) {
		mockIngest := &mockIngestService{
			err: errors.New("embedding service down"),
		}

		ports := &Ports{Ingest: mockIngest, Chat: &mockChatService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := IngestInput{Title: "Notes", Content: "some content"}
		_, _, err = server.handleIngest(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding service down")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		mockChat := &mockChatService{
			answer: &domain.Answer{
				Text:    "Paris",
				Sources: []string{"c-1", "c-2"},
			},
		}

		ports := &Ports{Ingest: &mockIngestService{}, Chat: mockChat}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AskInput{Query: "capital of France?", TopK: 3, SparseWeight: 0.6, DenseWeight: 0.4}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Paris", output.Answer)
		assert.Equal(t, []string{"c-1", "c-2"}, output.Sources)

		assert.Equal(t, "capital of France?", mockChat.lastQuery)
		assert.Equal(t, 3, mockChat.lastOpts.TopK)
		assert.InDelta(t, 0.6, mockChat.lastOpts.Weights.Sparse, 1e-9)
		assert.InDelta(t, 0.4, mockChat.lastOpts.Weights.Dense, 1e-9)
	})

	t.Run("omitted weights pass through as zero", func(t *testing.T) {
		mockChat := &mockChatService{answer: &domain.Answer{Text: "ok"}}

		ports := &Ports{Ingest: &mockIngestService{}, Chat: mockChat}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AskInput{Query: "q"}
		_, _, err = server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, mockChat.lastOpts.Weights.IsZero())
	})

	t.Run("nil sources become empty list", func(t *testing.T) {
		mockChat := &mockChatService{answer: &domain.Answer{Text: "no context"}}

		ports := &Ports{Ingest: &mockIngestService{}, Chat: mockChat}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Query: "q"})

		require.NoError(t, err)
		assert.NotNil(t, output.Sources)
		assert.Empty(t, output.Sources)
	})

	t.Run("returns error on ask failure", func(t *testing.T) {
		mockChat := &mockChatService{err: errors.New("llm unavailable")}

		ports := &Ports{Ingest: &mockIngestService{}, Chat: mockChat}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm unavailable")
	})
}
