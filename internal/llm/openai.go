package llm

import (
	"context"
	"fmt"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/openai"
)

type OpenAIEmbedder struct {
	client *openai.Client
	dim    int
}

func NewOpenAIEmbedder(client *openai.Client, dim int) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, dim: dim}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.client.CreateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrEmbeddingUnavailable, err)
	}
	if err := checkDimension(vector, e.dim); err != nil {
		return nil, err
	}
	return vector, nil
}

func (e *OpenAIEmbedder) Model() string {
	return e.client.EmbeddingModel
}

type OpenAIGenerator struct {
	client *openai.Client
	params GenerationParams
}

func NewOpenAIGenerator(client *openai.Client, params GenerationParams) *OpenAIGenerator {
	return &OpenAIGenerator{client: client, params: params}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	temperature := g.params.Temperature
	text, err := g.client.ChatCompletion(ctx, []openai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, openai.ChatOptions{
		MaxTokens:   g.params.MaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrGenerationUnavailable, err)
	}
	return text, nil
}

func (g *OpenAIGenerator) Model() string {
	return g.client.ChatModel
}
