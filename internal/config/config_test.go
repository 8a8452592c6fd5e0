package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Chunking.MinTokens)
	assert.Equal(t, 800, cfg.Chunking.MaxTokens)
	assert.InDelta(t, 0.18, cfg.Chunking.OverlapRatio, 1e-9)
	assert.InDelta(t, 0.75, cfg.Lexical.B, 1e-9)
	assert.InDelta(t, 1.5, cfg.Lexical.K1, 1e-9)
	assert.Equal(t, 50, cfg.Retrieval.DenseTopK)
	assert.Equal(t, 50, cfg.Retrieval.LexicalTopK)
	assert.Equal(t, 30, cfg.Retrieval.RerankTopK)
	assert.Equal(t, 8, cfg.Retrieval.FinalK)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, "qdrant", cfg.Vector.Backend)
	assert.Equal(t, 18000, cfg.Answer.ContextBudget)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir = "/srv/passim"

[chunking]
min_tokens = 200
max_tokens = 600

[retrieval]
final_k = 4

[vector]
backend = "memory"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/passim", cfg.DataDir)
	assert.Equal(t, 200, cfg.Chunking.MinTokens)
	assert.Equal(t, 600, cfg.Chunking.MaxTokens)
	assert.Equal(t, 4, cfg.Retrieval.FinalK)
	assert.Equal(t, "memory", cfg.Vector.Backend)
	// Untouched sections keep their defaults.
	assert.Equal(t, 50, cfg.Retrieval.DenseTopK)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PASSIM_DATA_DIR", "/tmp/data")
	t.Setenv("PASSIM_QDRANT_URL", "http://qdrant:6333")
	t.Setenv("PASSIM_OLLAMA_URL", "http://ollama:11434")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test", cfg.Answer.OpenAIAPIKey)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
	assert.Equal(t, "http://qdrant:6333", cfg.Vector.BaseURL)
	assert.Equal(t, "http://ollama:11434", cfg.Embedding.BaseURL)
	assert.Equal(t, "http://ollama:11434", cfg.Answer.OllamaBaseURL)
}
