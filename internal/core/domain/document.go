package domain

import "time"

// Document represents an uploaded text document.
// It is immutable after ingestion; only its derived chunks are used
// to answer queries.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title, usually the uploaded filename.
	Title string

	// URI is the original location of the raw file, if it was persisted.
	URI string

	// Content is the full raw text before chunking.
	Content string

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk represents the unit of indexing and retrieval: a bounded,
// contiguous slice of a document. Chunks are created once at ingestion
// and never mutated.
type Chunk struct {
	// ID is the unique identifier for the chunk. It is derived
	// deterministically from the document ID and position so that
	// re-ingesting the same document overwrites rather than duplicates.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk, including the overlap
	// repeated from the previous chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Start and End are byte offsets of this chunk within the original
	// document content. Because of overlap, consecutive chunks have
	// Start < previous End.
	Start int
	End   int

	// Embedding is the vector representation for dense retrieval.
	// Populated during ingestion; empty on chunks loaded for display.
	Embedding []float32
}
