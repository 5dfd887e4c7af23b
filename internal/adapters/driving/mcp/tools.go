package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Title   string `json:"title" jsonschema:"title of the document to ingest"`
	Content string `json:"content" jsonschema:"full text content of the document"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocumentID     string `json:"document_id"`
	ChunksIngested int    `json:"chunks_ingested"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query        string  `json:"query" jsonschema:"the question to answer from the indexed corpus"`
	TopK         int     `json:"top_k,omitempty" jsonschema:"number of candidates per ranker (default from config)"`
	SparseWeight float64 `json:"sparse_weight,omitempty" jsonschema:"weight for the keyword ranker (defaults to configured value)"`
	DenseWeight  float64 `json:"dense_weight,omitempty" jsonschema:"weight for the semantic ranker (defaults to configured value)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest a document into the corpus so it can be retrieved later",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using hybrid retrieval over the indexed corpus",
	}, s.handleAsk)
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingest.Ingest(ctx, input.Title, input.Content)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocumentID:     result.Document.ID,
		ChunksIngested: result.ChunksIngested,
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.AskOptions{
		TopK: input.TopK,
		Weights: domain.FusionWeights{
			Sparse: input.SparseWeight,
			Dense:  input.DenseWeight,
		},
	}

	answer, err := s.ports.Chat.Ask(ctx, input.Query, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}

	return nil, AskOutput{Answer: answer.Text, Sources: sources}, nil
}
