// Package ai wraps the external embedding provider behind a small interface
// so the retrieval pipeline never talks to the OpenAI client directly.
package ai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/deliveryos/recall/internal/errors"
)

// Config holds the embedding provider configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	EmbeddingModel string
	Timeout        time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.openai.com/v1",
		APIKey:         "",
		EmbeddingModel: "text-embedding-3-small",
		Timeout:        30 * time.Second,
	}
}

// Provider implements EmbeddingService on top of an OpenAI-compatible API.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new embedding provider.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// IsEnabled reports whether the provider has a model and credential
// configured.
func (p *Provider) IsEnabled() bool {
	return p.config.EmbeddingModel != "" && p.config.APIKey != ""
}

// Embed generates an embedding vector for the given text. Provider failures
// and empty responses surface as the embedding-unavailable kind; there is no
// retry here, retry policy belongs to the caller's transport layer.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if !p.IsEnabled() {
		return nil, errors.Disabled("embedding provider is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.config.EmbeddingModel),
	}
	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, errors.EmbeddingUnavailable("failed to generate embedding", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.EmbeddingUnavailable("embedding provider returned an empty vector", nil)
	}

	return resp.Data[0].Embedding, nil
}
