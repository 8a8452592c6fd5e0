package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/passim-search/passim/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/passim-search/passim/internal/adapters/driven/embedding/openai"
	"github.com/passim-search/passim/internal/adapters/driven/lexical/memindex"
	"github.com/passim-search/passim/internal/adapters/driven/llm/extractive"
	ollamallm "github.com/passim-search/passim/internal/adapters/driven/llm/ollama"
	openaillm "github.com/passim-search/passim/internal/adapters/driven/llm/openai"
	"github.com/passim-search/passim/internal/adapters/driven/rerank/tei"
	"github.com/passim-search/passim/internal/adapters/driven/storage/sqlite"
	"github.com/passim-search/passim/internal/adapters/driven/vector/memory"
	"github.com/passim-search/passim/internal/adapters/driven/vector/qdrant"
	"github.com/passim-search/passim/internal/adapters/driving/cli"
	"github.com/passim-search/passim/internal/chunker"
	"github.com/passim-search/passim/internal/config"
	"github.com/passim-search/passim/internal/core/ports/driven"
	"github.com/passim-search/passim/internal/core/services"
	"github.com/passim-search/passim/internal/logger"
	"github.com/passim-search/passim/internal/parsers"
	"github.com/passim-search/passim/internal/parsers/docx"
	"github.com/passim-search/passim/internal/parsers/markdown"
	"github.com/passim-search/passim/internal/parsers/pdf"
	"github.com/passim-search/passim/internal/parsers/plaintext"
)

var version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	godotenv.Load() //nolint:errcheck

	cfg, err := config.Load(os.Getenv("PASSIM_CONFIG"))
	if err != nil {
		return err
	}
	if cfg.InboxDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		cfg.InboxDir = filepath.Join(home, ".passim", "inbox")
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	lexical := memindex.New(cfg.Lexical.B, cfg.Lexical.K1)
	ctx := context.Background()
	chunks, err := store.ChunkStore().AllChunks(ctx)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}
	if err := lexical.Load(ctx, chunks); err != nil {
		return fmt.Errorf("rebuilding lexical index: %w", err)
	}
	logger.Debug("Lexical index rebuilt from %d chunks", len(chunks))

	var vector driven.VectorIndex
	switch cfg.Vector.Backend {
	case "memory":
		vector = memory.NewIndex()
	default:
		vector = qdrant.NewIndex(qdrant.Config{
			BaseURL:    cfg.Vector.BaseURL,
			Collection: cfg.Vector.Collection,
		})
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	var reranker driven.Reranker
	if cfg.Rerank.Enabled {
		reranker = tei.NewReranker(tei.Config{
			BaseURL: cfg.Rerank.BaseURL,
			Model:   cfg.Rerank.Model,
		})
	}

	registry := parsers.NewRegistry(plaintext.New(), markdown.New(), docx.New(), pdf.New())

	ingestion := services.NewIngestionService(
		registry, embedder, vector, store.ChunkStore(), lexical, store.IngestionLog(),
		chunker.Options{
			MinTokens:    cfg.Chunking.MinTokens,
			MaxTokens:    cfg.Chunking.MaxTokens,
			OverlapRatio: cfg.Chunking.OverlapRatio,
		},
	)
	retrieval := services.NewRetrievalService(lexical, vector, embedder, reranker, services.RetrievalConfig{
		DenseTopK:   cfg.Retrieval.DenseTopK,
		LexicalTopK: cfg.Retrieval.LexicalTopK,
		RerankTopK:  cfg.Retrieval.RerankTopK,
		FinalK:      cfg.Retrieval.FinalK,
	})
	answer := services.NewAnswerService(retrieval, buildProviders(cfg)...)
	admin := services.NewAdminService(vector, lexical, store.ChunkStore(), store.IngestionLog())

	return cli.Execute(version, cli.Services{
		Config:    &cfg,
		Ingestion: ingestion,
		Retrieval: retrieval,
		Answer:    answer,
		Admin:     admin,
	})
}

func buildEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	if cfg.Embedding.Provider == "openai" {
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring embeddings: %w", err)
		}
		return svc, nil
	}
	return ollama.NewEmbeddingService(ollama.Config{
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	}), nil
}

// buildProviders assembles the answer chain: OpenAI when a key is
// configured, then Ollama, then the extractive fallback.
func buildProviders(cfg config.Config) []driven.AnswerProvider {
	var providers []driven.AnswerProvider

	if cfg.Answer.OpenAIAPIKey != "" {
		p, err := openaillm.NewProvider(openaillm.Config{
			APIKey:        cfg.Answer.OpenAIAPIKey,
			Model:         cfg.Answer.OpenAIModel,
			ContextBudget: cfg.Answer.ContextBudget,
		})
		if err == nil {
			providers = append(providers, p)
		} else {
			logger.Warn("OpenAI provider disabled: %v", err)
		}
	}

	providers = append(providers, ollamallm.NewProvider(ollamallm.Config{
		BaseURL:       cfg.Answer.OllamaBaseURL,
		Model:         cfg.Answer.OllamaModel,
		ContextBudget: cfg.Answer.ContextBudget,
	}))
	providers = append(providers, extractive.NewProvider())
	return providers
}
