// Package app wires the configured adapters and services into a running
// pipeline. It is the composition root shared by the CLI commands.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ai"
	sparsememory "github.com/custodia-labs/sercha-rag/internal/adapters/driven/sparse/memory"
	storagememory "github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-rag/internal/chunker"
	"github.com/custodia-labs/sercha-rag/internal/config"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/logger"
	"github.com/custodia-labs/sercha-rag/internal/watcher"
)

// App holds the assembled pipeline.
type App struct {
	Config *config.Config
	Ingest *services.IngestService
	Chat   *services.ChatService
	Store  driven.DocumentStore

	embedding driven.EmbeddingService
	llm       driven.LLMService
	vector    driven.VectorIndex
	sparse    driven.SearchEngine
	watch     *watcher.Watcher
}

// New assembles the pipeline from cfg, validating provider reachability
// before returning. Durable storage triggers a sparse index rebuild so
// previously ingested documents stay queryable across restarts.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.Section("Startup")

	embedding, err := ai.CreateAndValidateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(cfg.LLM)
	if err != nil {
		embedding.Close()
		return nil, err
	}

	vector, err := ai.CreateVectorIndex(ctx, cfg.Vector, cfg.Embedding.Dimensions)
	if err != nil {
		embedding.Close()
		llm.Close()
		return nil, err
	}

	store, err := createDocumentStore(cfg)
	if err != nil {
		embedding.Close()
		llm.Close()
		vector.Close()
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Store:     store,
		embedding: embedding,
		llm:       llm,
		vector:    vector,
		sparse:    sparsememory.NewIndex(),
	}

	ck, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Ingest = services.NewIngestService(ck, embedding, vector, a.sparse, store, cfg.Embedding.Dimensions)

	if cfg.Storage == config.StorageSQLite {
		n, err := a.Ingest.RebuildSparseIndex(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("rebuilding indexes: %w", err)
		}
		if n > 0 {
			logger.Info("Restored %d chunks from storage", n)
		}
	}

	retriever := services.NewRetriever(a.sparse, vector, embedding)

	assembler, err := services.NewAssembler(store, cfg.Retrieval.ContextBudget)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Chat = services.NewChatService(retriever, assembler, llm, cfg.Retrieval.TopK, cfg.Weights())

	if cfg.WatchDataDir {
		if err := a.startWatcher(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// startWatcher auto-ingests files dropped into <dataDir>/inbox.
func (a *App) startWatcher(ctx context.Context) error {
	inbox := filepath.Join(a.Config.DataDir, "inbox")
	if err := os.MkdirAll(inbox, 0o700); err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}

	w, err := watcher.New(inbox, a.Ingest)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	w.Start(ctx)
	a.watch = w
	return nil
}

// Close releases all adapter resources.
func (a *App) Close() error {
	if a.watch != nil {
		a.watch.Stop()
	}

	var firstErr error
	for _, c := range []interface{ Close() error }{a.sparse, a.vector, a.llm, a.embedding, a.Store} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func createDocumentStore(cfg *config.Config) (driven.DocumentStore, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return sqlite.NewStore(cfg.DataDir)
	case config.StorageMemory:
		return storagememory.NewDocumentStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
