// Package memory provides an in-process BM25 inverted index for sparse
// keyword retrieval.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchEngine = (*Index)(nil)

// BM25 parameters. k1 controls term-frequency saturation, b controls
// document-length normalisation.
const (
	k1 = 1.2
	b  = 0.75
)

// posting records one chunk's occurrence data for a term.
type posting struct {
	chunkID string
	freq    int
}

// Index is an in-memory inverted index with BM25 scoring.
// All state is guarded by a single RWMutex: Index and Delete take the
// write lock, Search takes the read lock, so concurrent ingestion and
// queries never race on the posting lists.
type Index struct {
	mu sync.RWMutex

	// postings maps term -> chunks containing it.
	postings map[string][]posting

	// lengths maps chunkID -> token count, for length normalisation.
	lengths map[string]int

	// totalLen is the sum of all chunk lengths.
	totalLen int
}

// NewIndex creates an empty sparse index.
func NewIndex() *Index {
	return &Index{
		postings: make(map[string][]posting),
		lengths:  make(map[string]int),
	}
}

// Index adds or updates a chunk. Re-indexing an existing chunk ID
// replaces its postings.
func (idx *Index) Index(_ context.Context, chunk domain.Chunk) error {
	if chunk.ID == "" {
		return domain.ErrInvalidInput
	}

	terms := Tokenize(chunk.Content)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.lengths[chunk.ID]; exists {
		idx.removeLocked(chunk.ID)
	}

	freqs := make(map[string]int, len(terms))
	for _, term := range terms {
		freqs[term]++
	}
	for term, freq := range freqs {
		idx.postings[term] = append(idx.postings[term], posting{chunkID: chunk.ID, freq: freq})
	}

	idx.lengths[chunk.ID] = len(terms)
	idx.totalLen += len(terms)

	return nil
}

// Delete removes a chunk from the index. Deleting an unknown chunk is
// a no-op.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(chunkID)
	return nil
}

// removeLocked drops all postings for chunkID. Caller holds the write lock.
func (idx *Index) removeLocked(chunkID string) {
	length, ok := idx.lengths[chunkID]
	if !ok {
		return
	}

	for term, list := range idx.postings {
		kept := list[:0]
		for _, p := range list {
			if p.chunkID != chunkID {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(idx.postings, term)
		} else {
			idx.postings[term] = kept
		}
	}

	delete(idx.lengths, chunkID)
	idx.totalLen -= length
}

// Search scores every chunk containing at least one query term with
// BM25 and returns at most limit hits, sorted by score descending with
// ties broken by chunk ID ascending. The ordering is a total order;
// repeated searches over the same index return identical rankings.
func (idx *Index) Search(_ context.Context, query string, limit int) ([]driven.SearchHit, error) {
	terms := Tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docCount := len(idx.lengths)
	if docCount == 0 {
		return nil, nil
	}
	avgLen := float64(idx.totalLen) / float64(docCount)

	seen := make(map[string]bool, len(terms))
	scores := make(map[string]float64)
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true

		list, ok := idx.postings[term]
		if !ok {
			continue
		}

		// Floored IDF keeps scores non-negative for terms that appear
		// in most of the corpus.
		idf := math.Log((float64(docCount)-float64(len(list))+0.5)/(float64(len(list))+0.5) + 1)
		if idf < 0 {
			idf = 0
		}

		for _, p := range list {
			tf := float64(p.freq)
			norm := 1 - b + b*float64(idx.lengths[p.chunkID])/avgLen
			scores[p.chunkID] += idf * tf * (k1 + 1) / (tf + k1*norm)
		}
	}

	hits := make([]driven.SearchHit, 0, len(scores))
	for chunkID, score := range scores {
		hits = append(hits, driven.SearchHit{ChunkID: chunkID, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.lengths)
}

// Close releases resources. The in-memory index has none.
func (idx *Index) Close() error {
	return nil
}

// Tokenize lowercases text and splits it on any non-letter, non-digit
// rune. It is deliberately simple: no stemming, no stop words, so that
// indexing and querying stay deterministic and language-agnostic.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
