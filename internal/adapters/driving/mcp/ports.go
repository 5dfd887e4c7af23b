package mcp

import (
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest drives document ingestion.
	Ingest driving.IngestService

	// Chat drives the query pipeline.
	Chat driving.ChatService

	// Documents backs the corpus resources. Optional; resources report
	// an empty corpus when unset.
	Documents driven.DocumentStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
