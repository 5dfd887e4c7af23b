package domain

// RetrievalSource identifies which ranker produced a result.
type RetrievalSource string

// Ranker tags attached to retrieval results.
const (
	SourceSparse RetrievalSource = "sparse"
	SourceDense  RetrievalSource = "dense"
	SourceFused  RetrievalSource = "fused"
)

// RetrievalResult is a single ranked hit from one of the retrievers.
// Results are ephemeral; they exist only for the duration of a query.
type RetrievalResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the relevance score. Raw ranker scores are not on
	// comparable scales across rankers; fused scores are in [0,1].
	Score float64

	// Source is the ranker that produced this result.
	Source RetrievalSource
}

// FusionWeights controls how sparse and dense scores are combined.
type FusionWeights struct {
	// Sparse is the weight applied to the normalised keyword score.
	Sparse float64

	// Dense is the weight applied to the normalised similarity score.
	Dense float64
}

// DefaultFusionWeights weighs both rankers equally.
func DefaultFusionWeights() FusionWeights {
	return FusionWeights{Sparse: 0.5, Dense: 0.5}
}

// IsZero reports whether no weights were supplied.
func (w FusionWeights) IsZero() bool {
	return w.Sparse == 0 && w.Dense == 0
}

// Validate rejects weights that cannot produce a meaningful ranking.
func (w FusionWeights) Validate() error {
	if w.Sparse < 0 || w.Dense < 0 {
		return &ConfigError{Reason: "fusion weights must be non-negative"}
	}
	if w.Sparse == 0 && w.Dense == 0 {
		return &ConfigError{Reason: "at least one fusion weight must be positive"}
	}
	return nil
}

// FusedContext is the ordered selection of chunks passed to generation
// for a single query. Cumulative content size never exceeds the budget
// it was assembled under.
type FusedContext struct {
	// Chunks are the selected chunks in fused-ranking order.
	Chunks []Chunk

	// Size is the cumulative content length in bytes.
	Size int
}

// ChunkIDs returns the chunk identifiers in context order.
func (c FusedContext) ChunkIDs() []string {
	ids := make([]string, len(c.Chunks))
	for i := range c.Chunks {
		ids[i] = c.Chunks[i].ID
	}
	return ids
}

// AskOptions configures a single chat query.
type AskOptions struct {
	// TopK is the number of candidates requested from each ranker and
	// the maximum length of the fused ranking. Zero means the
	// configured default.
	TopK int

	// Weights overrides the configured fusion weights when non-zero.
	Weights FusionWeights
}

// Answer is the result of one query pipeline run.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the chunk IDs used as context, in assembler order.
	Sources []string
}
