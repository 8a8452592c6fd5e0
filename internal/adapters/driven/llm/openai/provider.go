// Package openai provides an answer provider using the OpenAI chat API.
package openai

import (
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/passim-search/passim/internal/adapters/driven/llm/prompt"
	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.AnswerProvider = (*Provider)(nil)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds configuration for the OpenAI answer provider.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL for Azure or compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// ContextBudget caps the passage context in characters.
	ContextBudget int
}

// Provider generates answers using the OpenAI chat completions API.
type Provider struct {
	client        *goopenai.Client
	model         string
	contextBudget int
}

// NewProvider creates a new OpenAI answer provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ContextBudget == 0 {
		cfg.ContextBudget = prompt.DefaultContextBudget
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client:        goopenai.NewClientWithConfig(clientCfg),
		model:         cfg.Model,
		contextBudget: cfg.ContextBudget,
	}, nil
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "openai"
}

// Generate produces an answer grounded in the given passages. API errors
// are reported as domain.ErrProviderUnavailable so the caller can fall
// through to the next provider.
func (p *Provider) Generate(ctx context.Context, question string, passages []domain.Passage) (string, error) {
	contextText := prompt.BuildContext(passages, p.contextBudget)

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt.User(question, contextText)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", domain.ErrProviderUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai: empty completion", domain.ErrProviderUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
