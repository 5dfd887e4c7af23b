// Package chunker splits document text into overlapping passages
// suitable for indexing.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping bytes.
const DefaultChunkOverlap = 200

// chunkNamespace salts the deterministic chunk UUIDs.
var chunkNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Chunker splits content into chunks of at most chunkSize bytes, where
// each chunk after the first repeats the trailing overlap bytes of the
// previous chunk. Splitting prefers paragraph and sentence boundaries
// and falls back to hard cuts. The output is fully deterministic: the
// same content and configuration always yield the same chunk sequence,
// including chunk IDs.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a chunker. The overlap must be smaller than the chunk
// size; violating that would prevent the splitter from advancing.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("chunk size must be positive, got %d", chunkSize)}
	}
	if overlap < 0 {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("chunk overlap must not be negative, got %d", overlap)}
	}
	if overlap >= chunkSize {
		return nil, &domain.ConfigError{
			Reason: fmt.Sprintf("chunk overlap %d must be smaller than chunk size %d", overlap, chunkSize),
		}
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured maximum chunk size in bytes.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Split divides content into overlapping chunks for the given document.
// Empty or whitespace-only content produces no chunks.
func (c *Chunker) Split(documentID, content string) ([]domain.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	contentLen := len(content)
	estimated := contentLen/(c.chunkSize-c.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	position := 0
	for start < contentLen {
		end := c.cutPoint(content, start)

		chunks = append(chunks, domain.Chunk{
			ID:         ChunkID(documentID, position),
			DocumentID: documentID,
			Content:    content[start:end],
			Position:   position,
			Start:      start,
			End:        end,
		})
		position++

		if end == contentLen {
			break
		}

		// Step back by the overlap so the next chunk repeats the tail
		// of this one. Overlap < chunkSize guarantees forward progress.
		start = end - c.overlap
	}

	return chunks, nil
}

// cutPoint finds where the chunk starting at start should end.
// It prefers the last paragraph break in the window, then the last
// sentence terminator, and hard-cuts at chunkSize otherwise. A boundary
// cut must clear the overlap, otherwise the splitter could not advance.
func (c *Chunker) cutPoint(content string, start int) int {
	end := start + c.chunkSize
	if end >= len(content) {
		return len(content)
	}

	window := content[start:end]
	minCut := c.overlap + 1

	if idx := strings.LastIndex(window, "\n\n"); idx >= 0 && idx+len("\n\n") >= minCut {
		return start + idx + len("\n\n")
	}

	if idx := lastSentenceEnd(window); idx >= minCut {
		return start + idx
	}

	// Hard cut: back off so the cut never lands inside a multi-byte
	// rune. If backing off would not clear the overlap, advance past
	// the rune instead so the splitter keeps moving.
	for end > start && !utf8.RuneStart(content[end]) {
		end--
	}
	if end-start <= c.overlap {
		end = start + c.chunkSize
		for end < len(content) && !utf8.RuneStart(content[end]) {
			end++
		}
	}
	return end
}

// lastSentenceEnd returns the offset just past the last sentence
// terminator in s, or -1 if there is none.
func lastSentenceEnd(s string) int {
	best := -1
	for _, term := range []string{". ", "! ", "? ", ".\n", "!\n", "?\n", "\n"} {
		if idx := strings.LastIndex(s, term); idx >= 0 && idx+len(term) > best {
			best = idx + len(term)
		}
	}
	return best
}

// ChunkID derives the deterministic identifier for a chunk from its
// document and position. Re-ingesting a document therefore overwrites
// its chunks instead of duplicating them.
func ChunkID(documentID string, position int) string {
	return uuid.NewSHA1(chunkNamespace, fmt.Appendf(nil, "%s:%d", documentID, position)).String()
}
