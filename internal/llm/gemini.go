package llm

import (
	"context"
	"fmt"

	"paint-advisor/internal/errs"

	"google.golang.org/genai"
)

func newGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

type GeminiGenerator struct {
	client *genai.Client
	params GenerationParams
}

func NewGeminiGenerator(ctx context.Context, apiKey string, params GenerationParams) (*GeminiGenerator, error) {
	client, err := newGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client, params: params}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(g.params.Temperature)),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.params.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrGenerationUnavailable, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates: %w", errs.ErrGenerationUnavailable)
	}
	return resp.Text(), nil
}

func (g *GeminiGenerator) Model() string {
	return g.params.Model
}

type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dim    int
}

func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dim int) (*GeminiEmbedder, error) {
	client, err := newGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return &GeminiEmbedder{client: client, model: model, dim: dim}, nil
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	outputDim := int32(e.dim)
	result, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{OutputDimensionality: &outputDim})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrEmbeddingUnavailable, err)
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("gemini returned no embeddings: %w", errs.ErrEmbeddingUnavailable)
	}

	vector := result.Embeddings[0].Values
	if err := checkDimension(vector, e.dim); err != nil {
		return nil, err
	}
	return vector, nil
}

func (e *GeminiEmbedder) Model() string {
	return e.model
}
