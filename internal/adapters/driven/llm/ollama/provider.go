// Package ollama provides an answer provider using a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/passim-search/passim/internal/adapters/driven/llm/prompt"
	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.AnswerProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama answer provider.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// ContextBudget caps the passage context in characters.
	ContextBudget int
}

// Provider generates answers using Ollama's chat API.
type Provider struct {
	client        *http.Client
	baseURL       string
	model         string
	contextBudget int
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewProvider creates a new Ollama answer provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ContextBudget == 0 {
		cfg.ContextBudget = prompt.DefaultContextBudget
	}

	return &Provider{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		contextBudget: cfg.ContextBudget,
	}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "ollama"
}

// Generate produces an answer grounded in the given passages. A server
// that cannot be reached yields domain.ErrProviderUnavailable so the
// caller can fall through to the next provider.
func (p *Provider) Generate(ctx context.Context, question string, passages []domain.Passage) (string, error) {
	contextText := prompt.BuildContext(passages, p.contextBudget)

	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User(question, contextText)},
		},
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: ollama: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("%w: ollama (status %d)", domain.ErrProviderUnavailable, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: ollama (status %d): %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}
