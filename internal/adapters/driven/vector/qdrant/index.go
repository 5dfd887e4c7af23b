// Package qdrant provides a vector index adapter backed by a Qdrant
// server, using its gRPC API.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultAddr       = "localhost:6334"
	DefaultCollection = "sercha_rag_chunks"
)

// Config holds configuration for the Qdrant vector index.
type Config struct {
	// Addr is the Qdrant gRPC address (default: localhost:6334).
	Addr string

	// Collection is the collection name (default: sercha_rag_chunks).
	Collection string

	// Dimension is the vector size the collection is created with.
	// Must match the embedding provider's output dimension.
	Dimension int
}

// Index stores and searches chunk embeddings in Qdrant.
// The adapter's only logic is translating between chunk IDs/vectors and
// the Qdrant wire format; consistency guarantees are the store's.
type Index struct {
	conn        *grpc.ClientConn
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	collection  string
	dimension   int
}

// NewIndex connects to Qdrant and ensures the collection exists with
// the configured dimension and cosine distance. A dimension mismatch
// with an existing collection is a fatal configuration error.
func NewIndex(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Dimension <= 0 {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("vector dimension must be positive, got %d", cfg.Dimension)}
	}

	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, &domain.ProviderError{Provider: "qdrant", Err: fmt.Errorf("connecting to %s: %w", cfg.Addr, err)}
	}

	idx := &Index{
		conn:        conn,
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		collection:  cfg.Collection,
		dimension:   cfg.Dimension,
	}

	if err := idx.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return idx, nil
}

// ensureCollection creates the collection if missing, or verifies its
// dimension if it already exists.
func (idx *Index) ensureCollection(ctx context.Context) error {
	list, err := idx.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return &domain.ProviderError{Provider: "qdrant", Err: fmt.Errorf("listing collections: %w", err)}
	}

	for _, col := range list.GetCollections() {
		if col.GetName() != idx.collection {
			continue
		}

		info, err := idx.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{
			CollectionName: idx.collection,
		})
		if err != nil {
			return &domain.ProviderError{Provider: "qdrant", Err: fmt.Errorf("getting collection info: %w", err)}
		}

		size := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != uint64(idx.dimension) {
			return &domain.ConfigError{
				Reason: fmt.Sprintf("collection %q has dimension %d, configured embedding dimension is %d",
					idx.collection, size, idx.dimension),
			}
		}
		return nil
	}

	_, err = idx.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: idx.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(idx.dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return &domain.ProviderError{Provider: "qdrant", Err: fmt.Errorf("creating collection: %w", err)}
	}
	return nil
}

// Add upserts the vector for the given chunk ID. Chunk IDs are UUIDs,
// which Qdrant accepts natively as point IDs, so re-adding the same
// chunk overwrites its point.
func (idx *Index) Add(ctx context.Context, chunkID string, embedding []float32) error {
	if len(embedding) != idx.dimension {
		return &domain.ConfigError{
			Reason: fmt.Sprintf("vector dimension mismatch: collection expects %d, got %d", idx.dimension, len(embedding)),
		}
	}

	point := &qdrant.PointStruct{
		Id: &qdrant.PointId{
			PointIdOptions: &qdrant.PointId_Uuid{Uuid: chunkID},
		},
		Vectors: &qdrant.Vectors{
			VectorsOptions: &qdrant.Vectors_Vector{
				Vector: &qdrant.Vector{Data: embedding},
			},
		},
	}

	_, err := idx.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: idx.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return &domain.ProviderError{Provider: "qdrant", Err: fmt.Errorf("upserting point %s: %w", chunkID, err)}
	}
	return nil
}

// Delete removes a point from the collection.
func (idx *Index) Delete(ctx context.Context, chunkID string) error {
	_, err := idx.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: idx.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{
						{PointIdOptions: &qdrant.PointId_Uuid{Uuid: chunkID}},
					},
				},
			},
		},
	})
	if err != nil {
		return &domain.ProviderError{Provider: "qdrant", Err: fmt.Errorf("deleting point %s: %w", chunkID, err)}
	}
	return nil
}

// Search returns the k nearest points by cosine similarity. Qdrant
// already returns results sorted by score descending, mirroring the
// sparse engine's output shape so both rankings fuse cleanly.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimension {
		return nil, &domain.ConfigError{
			Reason: fmt.Sprintf("vector dimension mismatch: collection expects %d, got %d", idx.dimension, len(query)),
		}
	}
	if k <= 0 {
		return nil, nil
	}

	resp, err := idx.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: idx.collection,
		Vector:         query,
		Limit:          uint64(k),
	})
	if err != nil {
		return nil, &domain.ProviderError{Provider: "qdrant", Err: fmt.Errorf("searching: %w", err)}
	}

	hits := make([]driven.VectorHit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		id := point.GetId().GetUuid()
		if id == "" {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    id,
			Similarity: float64(point.GetScore()),
		})
	}
	return hits, nil
}

// Close closes the gRPC connection.
func (idx *Index) Close() error {
	return idx.conn.Close()
}
