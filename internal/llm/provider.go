// Package llm adapts the embedding and generation providers (OpenAI, Claude, Gemini)
// to the two narrow interfaces the recommender consumes.
package llm

import (
	"context"
	"fmt"

	"paint-advisor/internal/config"
	"paint-advisor/internal/errs"
	"paint-advisor/internal/openai"

	"github.com/rs/zerolog"
)

// Embedder turns text into a vector of the configured dimension
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Generator produces a completion for a system + user prompt pair
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Model() string
}

const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"

	defaultClaudeModel          = "claude-3-5-haiku-latest"
	defaultGeminiModel          = "gemini-2.0-flash"
	defaultGeminiEmbeddingModel = "gemini-embedding-001"
)

// NewEmbedder builds the configured embedding provider. Without an API key it
// returns an embedder that always fails, which sends recommendations to the fallback.
func NewEmbedder(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Embedder, error) {
	model := cfg.EmbeddingModel
	if cfg.EmbeddingProvider == ProviderGemini && model == openai.DefaultEmbeddingModel {
		model = defaultGeminiEmbeddingModel
	}

	if cfg.EmbeddingAPIKey() == "" {
		log.Warn().Str("provider", cfg.EmbeddingProvider).Msg("no API key for embedding provider, semantic search disabled")
		return &unavailableEmbedder{model: model}, nil
	}

	switch cfg.EmbeddingProvider {
	case ProviderOpenAI:
		client := openai.NewClient(openai.Config{
			APIKey:         cfg.OpenAIAPIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			EmbeddingModel: model,
			Timeout:        cfg.HTTPClientTimeout,
		})
		return NewOpenAIEmbedder(client, cfg.EmbeddingDim), nil
	case ProviderGemini:
		return NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, model, cfg.EmbeddingDim)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}
}

// NewGenerator builds the configured generation provider; see NewEmbedder for missing keys
func NewGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Generator, error) {
	model := cfg.LLMModel
	if model == openai.DefaultChatModel {
		switch cfg.LLMProvider {
		case ProviderClaude:
			model = defaultClaudeModel
		case ProviderGemini:
			model = defaultGeminiModel
		}
	}

	if cfg.LLMAPIKey() == "" {
		log.Warn().Str("provider", cfg.LLMProvider).Msg("no API key for generation provider, answers use the simple search")
		return &unavailableGenerator{model: model}, nil
	}

	params := GenerationParams{
		Model:       model,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI:
		client := openai.NewClient(openai.Config{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			ChatModel: model,
			Timeout:   cfg.HTTPClientTimeout,
		})
		return NewOpenAIGenerator(client, params), nil
	case ProviderClaude:
		return NewClaudeGenerator(cfg.AnthropicAPIKey, params, cfg.HTTPClientTimeout), nil
	case ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, params)
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", cfg.LLMProvider)
	}
}

// GenerationParams are shared by every generation provider
type GenerationParams struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

type unavailableEmbedder struct {
	model string
}

func (e *unavailableEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding %s: %w", e.model, errs.ErrProviderNotConfigured)
}

func (e *unavailableEmbedder) Model() string { return e.model }

type unavailableGenerator struct {
	model string
}

func (g *unavailableGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return "", fmt.Errorf("generation %s: %w", g.model, errs.ErrProviderNotConfigured)
}

func (g *unavailableGenerator) Model() string { return g.model }

func checkDimension(vector []float32, dim int) error {
	if dim > 0 && len(vector) != dim {
		return fmt.Errorf("embedding has %d dimensions, expected %d: %w", len(vector), dim, errs.ErrEmbeddingUnavailable)
	}
	return nil
}
