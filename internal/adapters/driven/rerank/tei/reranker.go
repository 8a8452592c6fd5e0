// Package tei provides a reranker adapter for a Text Embeddings Inference
// server's /rerank endpoint, which serves cross-encoder models.
package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultModel   = "BAAI/bge-reranker-base"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the TEI reranker.
type Config struct {
	// BaseURL is the TEI server base URL (default: http://localhost:8080).
	BaseURL string

	// Model names the served cross-encoder, for logging only; TEI serves
	// one model per instance.
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Reranker scores (query, passage) pairs via a TEI server.
type Reranker struct {
	client  *http.Client
	baseURL string
	model   string
}

// rerankRequest is the TEI /rerank request format.
type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

// rerankResult is one entry of the TEI /rerank response.
type rerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// NewReranker creates a new TEI reranker.
func NewReranker(cfg Config) *Reranker {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Reranker{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Rerank scores all passages against the query in one request and returns
// scores in input order.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	reqBody := rerankRequest{
		Query: query,
		Texts: passages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		r.baseURL+"/rerank",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("tei error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("tei error (status %d): %s", resp.StatusCode, string(body))
	}

	var results []rerankResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// TEI returns results sorted by score; restore input order by index.
	scores := make([]float64, len(passages))
	for _, res := range results {
		if res.Index < 0 || res.Index >= len(scores) {
			return nil, fmt.Errorf("tei: result index %d out of range", res.Index)
		}
		scores[res.Index] = res.Score
	}
	return scores, nil
}

// ModelName returns the name of the reranker model being used.
func (r *Reranker) ModelName() string {
	return r.model
}

// Close releases resources.
func (r *Reranker) Close() error {
	return nil
}
