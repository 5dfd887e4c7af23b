package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// IngestService drives the ingestion pipeline for uploaded documents.
type IngestService interface {
	// Ingest chunks, embeds, and indexes a document. The document
	// becomes visible to queries only once the whole pipeline has
	// completed; a failure part-way reports the document as failed
	// without rolling back already-written chunks.
	Ingest(ctx context.Context, title, content string) (*IngestResult, error)

	// DeleteDocument removes a document and its chunks from every
	// index and the store. Unknown IDs return ErrNotFound.
	DeleteDocument(ctx context.Context, documentID string) error
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	// Document is the ingested document (without raw content).
	Document domain.Document

	// ChunksIngested is the number of chunks indexed.
	ChunksIngested int
}
