// Package config loads the service configuration from an optional TOML
// file and environment variables. Environment variables always win, so
// deployments can override any file-provided value.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Provider selection values.
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// Store selection values.
const (
	VectorStoreMemory = "memory"
	VectorStoreQdrant = "qdrant"

	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "sercha-rag.toml"

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "local" (Ollama) or "remote" (OpenAI).
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against the remote provider. Usually set
	// via OPENAI_API_KEY rather than the file.
	APIKey string `toml:"-"`

	// Dimensions is the embedding vector size. Must match the dense
	// index's configured dimension.
	Dimensions int `toml:"dimensions"`
}

// VectorConfig selects and configures the dense index.
type VectorConfig struct {
	// Store is "memory" or "qdrant".
	Store string `toml:"store"`

	// Addr is the Qdrant gRPC address.
	Addr string `toml:"addr"`

	// Collection is the Qdrant collection name.
	Collection string `toml:"collection"`
}

// LLMConfig selects and configures the generation provider.
type LLMConfig struct {
	// Provider is "local" (Ollama) or "remote" (OpenAI).
	Provider string `toml:"provider"`

	// Model is the generation model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against the remote provider.
	APIKey string `toml:"-"`
}

// ChunkingConfig configures the document chunker.
type ChunkingConfig struct {
	// Size is the maximum chunk size in bytes.
	Size int `toml:"size"`

	// Overlap is the number of bytes repeated between consecutive
	// chunks. Must be smaller than Size.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures the hybrid retriever and context assembler.
type RetrievalConfig struct {
	// TopK is the default number of candidates per ranker.
	TopK int `toml:"top_k"`

	// SparseWeight and DenseWeight are the default fusion weights.
	SparseWeight float64 `toml:"sparse_weight"`
	DenseWeight  float64 `toml:"dense_weight"`

	// ContextBudget is the maximum assembled context size in bytes.
	ContextBudget int `toml:"context_budget"`
}

// Config is the root service configuration.
type Config struct {
	// HTTPAddr is the listen address for the HTTP API.
	HTTPAddr string `toml:"http_addr"`

	// DataDir is where uploaded files and the metadata database live.
	DataDir string `toml:"data_dir"`

	// WatchDataDir enables automatic ingestion of files dropped into
	// DataDir/inbox.
	WatchDataDir bool `toml:"watch_data_dir"`

	// Storage is "memory" or "sqlite".
	Storage string `toml:"storage"`

	Embedding EmbeddingConfig `toml:"embedding"`
	Vector    VectorConfig    `toml:"vector"`
	LLM       LLMConfig       `toml:"llm"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// Default returns the configuration used when nothing is provided:
// fully local (Ollama + in-memory indexes), suitable for development.
func Default() *Config {
	return &Config{
		HTTPAddr: ":8080",
		DataDir:  defaultDataDir(),
		Storage:  StorageMemory,
		Embedding: EmbeddingConfig{
			Provider:   ProviderLocal,
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
		Vector: VectorConfig{
			Store: VectorStoreMemory,
		},
		LLM: LLMConfig{
			Provider: ProviderLocal,
			Model:    "llama3.2",
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK:          5,
			SparseWeight:  0.5,
			DenseWeight:   0.5,
			ContextBudget: 4000,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (or ./sercha-rag.toml if path is empty and it exists), then
// environment variables. A .env file in the working directory is
// loaded first so local development does not need exported variables.
func Load(path string) (*Config, error) {
	// Missing .env is fine; only report parse failures.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("loading .env: %v", err)}
	}

	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &domain.ConfigError{Reason: fmt.Sprintf("reading config file %s: %v", path, err)}
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, &domain.ConfigError{Reason: fmt.Sprintf("parsing config file %s: %v", path, err)}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg fields from environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.DataDir, "DATA_DIR")
	setBool(&cfg.WatchDataDir, "WATCH_DATA_DIR")
	setString(&cfg.Storage, "STORAGE")

	setString(&cfg.Embedding.Provider, "EMBEDDING_PROVIDER")
	setString(&cfg.Embedding.Model, "EMBEDDING_MODEL")
	setString(&cfg.Embedding.BaseURL, "EMBEDDING_BASE_URL")
	setInt(&cfg.Embedding.Dimensions, "VECTOR_DIMENSION")
	setString(&cfg.Embedding.APIKey, "OPENAI_API_KEY")

	setString(&cfg.Vector.Store, "VECTOR_STORE")
	setString(&cfg.Vector.Addr, "QDRANT_ADDR")
	setString(&cfg.Vector.Collection, "QDRANT_COLLECTION")

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")

	setInt(&cfg.Chunking.Size, "CHUNK_SIZE")
	setInt(&cfg.Chunking.Overlap, "CHUNK_OVERLAP")

	setInt(&cfg.Retrieval.TopK, "TOP_K")
	setFloat(&cfg.Retrieval.SparseWeight, "SPARSE_WEIGHT")
	setFloat(&cfg.Retrieval.DenseWeight, "DENSE_WEIGHT")
	setInt(&cfg.Retrieval.ContextBudget, "CONTEXT_BUDGET")
}

// Validate rejects configurations the pipelines cannot run with.
// All violations are ConfigError: fatal at startup, never retried.
func (c *Config) Validate() error {
	if c.Embedding.Provider != ProviderLocal && c.Embedding.Provider != ProviderRemote {
		return &domain.ConfigError{Reason: fmt.Sprintf("unknown embedding provider %q", c.Embedding.Provider)}
	}
	if c.LLM.Provider != ProviderLocal && c.LLM.Provider != ProviderRemote {
		return &domain.ConfigError{Reason: fmt.Sprintf("unknown LLM provider %q", c.LLM.Provider)}
	}
	if c.Vector.Store != VectorStoreMemory && c.Vector.Store != VectorStoreQdrant {
		return &domain.ConfigError{Reason: fmt.Sprintf("unknown vector store %q", c.Vector.Store)}
	}
	if c.Storage != StorageMemory && c.Storage != StorageSQLite {
		return &domain.ConfigError{Reason: fmt.Sprintf("unknown storage %q", c.Storage)}
	}
	if c.Embedding.Provider == ProviderRemote && c.Embedding.APIKey == "" {
		return &domain.ConfigError{Reason: "remote embedding provider requires OPENAI_API_KEY"}
	}
	if c.LLM.Provider == ProviderRemote && c.LLM.APIKey == "" {
		return &domain.ConfigError{Reason: "remote LLM provider requires OPENAI_API_KEY"}
	}
	if c.Embedding.Dimensions <= 0 {
		return &domain.ConfigError{Reason: fmt.Sprintf("vector dimension must be positive, got %d", c.Embedding.Dimensions)}
	}
	if c.Chunking.Size <= 0 {
		return &domain.ConfigError{Reason: fmt.Sprintf("chunk size must be positive, got %d", c.Chunking.Size)}
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return &domain.ConfigError{
			Reason: fmt.Sprintf("chunk overlap %d must be non-negative and smaller than chunk size %d",
				c.Chunking.Overlap, c.Chunking.Size),
		}
	}
	if c.Retrieval.TopK <= 0 {
		return &domain.ConfigError{Reason: fmt.Sprintf("top_k must be positive, got %d", c.Retrieval.TopK)}
	}
	if c.Retrieval.ContextBudget <= 0 {
		return &domain.ConfigError{Reason: fmt.Sprintf("context budget must be positive, got %d", c.Retrieval.ContextBudget)}
	}
	weights := domain.FusionWeights{Sparse: c.Retrieval.SparseWeight, Dense: c.Retrieval.DenseWeight}
	if err := weights.Validate(); err != nil {
		return err
	}
	return nil
}

// Weights returns the configured default fusion weights.
func (c *Config) Weights() domain.FusionWeights {
	return domain.FusionWeights{Sparse: c.Retrieval.SparseWeight, Dense: c.Retrieval.DenseWeight}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return home + "/.sercha-rag/data"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
