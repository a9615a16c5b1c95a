package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paint-advisor/internal/errs"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type ClaudeGenerator struct {
	client anthropic.Client
	params GenerationParams
}

func NewClaudeGenerator(apiKey string, params GenerationParams, timeout time.Duration, opts ...option.RequestOption) *ClaudeGenerator {
	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(timeout))
	}
	clientOpts = append(clientOpts, opts...)

	return &ClaudeGenerator{
		client: anthropic.NewClient(clientOpts...),
		params: params,
	}
}

func (g *ClaudeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.params.Model),
		MaxTokens: int64(g.params.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		Temperature: anthropic.Float(g.params.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrGenerationUnavailable, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func (g *ClaudeGenerator) Model() string {
	return g.params.Model
}
