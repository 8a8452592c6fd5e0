// Package qdrant provides a vector index adapter backed by a Qdrant
// server's REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "passim_chunks"
	DefaultTimeout    = 30 * time.Second
)

// Config holds configuration for the Qdrant vector index.
type Config struct {
	// BaseURL is the Qdrant REST API base URL (default: http://localhost:6333).
	BaseURL string

	// Collection is the collection name (default: passim_chunks).
	Collection string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index talks to a Qdrant collection over REST.
type Index struct {
	client     *http.Client
	baseURL    string
	collection string
}

// NewIndex creates a new Qdrant vector index.
func NewIndex(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
	}
}

// collectionURL builds a collection-scoped endpoint URL.
func (ix *Index) collectionURL(suffix string) string {
	return ix.baseURL + "/collections/" + ix.collection + suffix
}

// do sends a JSON request and decodes the JSON response into out, which
// may be nil when the body is not needed.
func (ix *Index) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ix.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: qdrant: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("qdrant error (status %d): failed to read response", resp.StatusCode)
		}
		return fmt.Errorf("qdrant error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// EnsureCollection creates the collection with cosine distance if it does
// not already exist.
func (ix *Index) EnsureCollection(ctx context.Context, dimensions int) error {
	err := ix.do(ctx, http.MethodGet, ix.collectionURL(""), nil, nil)
	if err == nil {
		return nil
	}

	createReq := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	if err := ix.do(ctx, http.MethodPut, ix.collectionURL(""), createReq, nil); err != nil {
		return fmt.Errorf("create collection %s: %w", ix.collection, err)
	}
	return nil
}

// upsertPoint is the Qdrant point wire format.
type upsertPoint struct {
	ID      string              `json:"id"`
	Vector  []float32           `json:"vector"`
	Payload domain.ChunkPayload `json:"payload"`
}

// Upsert writes a batch of points with wait=true so the write is visible
// before returning. Existing ids are overwritten.
func (ix *Index) Upsert(ctx context.Context, points []driven.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}

	wire := make([]upsertPoint, len(points))
	for i, p := range points {
		wire[i] = upsertPoint{ID: p.ID, Vector: p.Vector, Payload: p.Payload}
	}

	url := ix.collectionURL("/points?wait=true")
	if err := ix.do(ctx, http.MethodPut, url, map[string]any{"points": wire}, nil); err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// searchRequest is the Qdrant search wire format.
type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

// searchResponse is the Qdrant search response format.
type searchResponse struct {
	Result []struct {
		ID      string              `json:"id"`
		Score   float64             `json:"score"`
		Payload domain.ChunkPayload `json:"payload"`
	} `json:"result"`
}

// Search finds the topK nearest neighbours by cosine similarity.
func (ix *Index) Search(ctx context.Context, vector []float32, topK int) ([]driven.VectorHit, error) {
	reqBody := searchRequest{
		Vector:      vector,
		Limit:       topK,
		WithPayload: true,
	}

	var resp searchResponse
	if err := ix.do(ctx, http.MethodPost, ix.collectionURL("/points/search"), reqBody, &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]driven.VectorHit, len(resp.Result))
	for i, r := range resp.Result {
		hits[i] = driven.VectorHit{ID: r.ID, Score: r.Score, Payload: r.Payload}
	}
	return hits, nil
}

// Drop removes the collection and all its points.
func (ix *Index) Drop(ctx context.Context) error {
	if err := ix.do(ctx, http.MethodDelete, ix.collectionURL(""), nil, nil); err != nil {
		return fmt.Errorf("drop collection %s: %w", ix.collection, err)
	}
	return nil
}

// Close releases resources.
func (ix *Index) Close() error {
	return nil
}
