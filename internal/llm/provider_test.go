package llm

import (
	"context"
	"testing"

	"paint-advisor/internal/config"
	"paint-advisor/internal/errs"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		EmbeddingDim:      1536,
		LLMProvider:       ProviderOpenAI,
		LLMModel:          "gpt-4o-mini",
		LLMMaxTokens:      400,
		LLMTemperature:    0.7,
	}
}

func TestFactoryWithoutKeysReturnsUnavailableProviders(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()

	embedder, err := NewEmbedder(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", embedder.Model())
	_, err = embedder.Embed(ctx, "azul")
	assert.ErrorIs(t, err, errs.ErrProviderNotConfigured)

	generator, err := NewGenerator(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", generator.Model())
	_, err = generator.Generate(ctx, "sys", "user")
	assert.ErrorIs(t, err, errs.ErrProviderNotConfigured)
}

func TestFactoryPicksProviderDefaultModels(t *testing.T) {
	ctx := context.Background()

	cfg := baseConfig()
	cfg.LLMProvider = ProviderClaude
	generator, err := NewGenerator(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, defaultClaudeModel, generator.Model())

	cfg.AnthropicAPIKey = "sk-ant"
	generator, err = NewGenerator(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ClaudeGenerator{}, generator)

	cfg = baseConfig()
	cfg.EmbeddingProvider = ProviderGemini
	embedder, err := NewEmbedder(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, defaultGeminiEmbeddingModel, embedder.Model())
}

func TestFactoryBuildsOpenAIProviders(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()
	cfg.OpenAIAPIKey = "sk-test"

	embedder, err := NewEmbedder(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAIEmbedder{}, embedder)

	generator, err := NewGenerator(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, generator)
	assert.Equal(t, "gpt-4o-mini", generator.Model())
}
