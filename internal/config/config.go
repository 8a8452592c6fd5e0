// Package config loads passim's TOML configuration file and applies
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full passim configuration tree.
type Config struct {
	// DataDir holds the SQLite database and defaults to ~/.passim/data.
	DataDir string `toml:"data_dir"`

	// InboxDir is where uploads land and the watcher looks for new files.
	InboxDir string `toml:"inbox_dir"`

	Server    ServerConfig    `toml:"server"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Lexical   LexicalConfig   `toml:"lexical"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Vector    VectorConfig    `toml:"vector"`
	Rerank    RerankConfig    `toml:"rerank"`
	Answer    AnswerConfig    `toml:"answer"`
}

// ServerConfig configures the REST server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ChunkingConfig configures the text chunker budgets.
type ChunkingConfig struct {
	MinTokens    int     `toml:"min_tokens"`
	MaxTokens    int     `toml:"max_tokens"`
	OverlapRatio float64 `toml:"overlap_ratio"`
}

// LexicalConfig configures the BM25 index.
type LexicalConfig struct {
	B  float64 `toml:"b"`
	K1 float64 `toml:"k1"`
}

// RetrievalConfig configures the hybrid retrieval pipeline depths.
type RetrievalConfig struct {
	DenseTopK   int `toml:"dense_top_k"`
	LexicalTopK int `toml:"lexical_top_k"`
	RerankTopK  int `toml:"rerank_top_k"`
	FinalK      int `toml:"final_k"`
}

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`

	// APIKey comes from the OPENAI_API_KEY environment variable, never
	// from the file.
	APIKey string `toml:"-"`
}

// VectorConfig selects and configures the vector index backend.
type VectorConfig struct {
	// Backend is "qdrant" or "memory".
	Backend    string `toml:"backend"`
	BaseURL    string `toml:"base_url"`
	Collection string `toml:"collection"`
}

// RerankConfig configures the cross-encoder scoring service.
type RerankConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// AnswerConfig configures the answer provider chain.
type AnswerConfig struct {
	OpenAIModel   string `toml:"openai_model"`
	OllamaBaseURL string `toml:"ollama_base_url"`
	OllamaModel   string `toml:"ollama_model"`
	ContextBudget int    `toml:"context_budget"`

	// OpenAIAPIKey comes from the OPENAI_API_KEY environment variable.
	OpenAIAPIKey string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8088,
		},
		Chunking: ChunkingConfig{
			MinTokens:    400,
			MaxTokens:    800,
			OverlapRatio: 0.18,
		},
		Lexical: LexicalConfig{
			B:  0.75,
			K1: 1.5,
		},
		Retrieval: RetrievalConfig{
			DenseTopK:   50,
			LexicalTopK: 50,
			RerankTopK:  30,
			FinalK:      8,
		},
		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			Model:      "all-minilm",
			Dimensions: 384,
		},
		Vector: VectorConfig{
			Backend:    "qdrant",
			Collection: "passim_chunks",
		},
		Rerank: RerankConfig{
			Enabled: true,
			Model:   "BAAI/bge-reranker-base",
		},
		Answer: AnswerConfig{
			OpenAIModel:   "gpt-4o-mini",
			OllamaModel:   "llama3.2",
			ContextBudget: 18000,
		},
	}
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults. Environment overrides
// are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".passim", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - defaults apply
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv copies secrets and deploy-specific overrides from the
// environment.
func applyEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
		cfg.Answer.OpenAIAPIKey = key
	}
	if dir := os.Getenv("PASSIM_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if dir := os.Getenv("PASSIM_INBOX_DIR"); dir != "" {
		cfg.InboxDir = dir
	}
	if url := os.Getenv("PASSIM_QDRANT_URL"); url != "" {
		cfg.Vector.BaseURL = url
	}
	if url := os.Getenv("PASSIM_OLLAMA_URL"); url != "" {
		cfg.Embedding.BaseURL = url
		cfg.Answer.OllamaBaseURL = url
	}
}
