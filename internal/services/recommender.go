package services

import (
	"context"
	"fmt"
	"strings"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

/*
Recommendation flow:

	query
	  -> embed (Embedder)
	  -> nearest k products (SimilaritySearch)
	  -> numbered context blocks (FormatContext)
	  -> advisor answer (Generator)

Any failure along the way, including an empty answer, switches to FallbackSearch.
The caller always gets a RecommendationResult.
*/

type Recommender struct {
	embedder  Embedder
	search    *SimilaritySearch
	generator Generator
	fallback  *FallbackSearch
	log       zerolog.Logger
}

func NewRecommender(
	embedder Embedder,
	search *SimilaritySearch,
	generator Generator,
	fallback *FallbackSearch,
	log zerolog.Logger,
) *Recommender {
	return &Recommender{
		embedder:  embedder,
		search:    search,
		generator: generator,
		fallback:  fallback,
		log:       log,
	}
}

// Recommend runs the pipeline for a non-empty query and at most k products
func (r *Recommender) Recommend(ctx context.Context, query string, k int) *models.RecommendationResult {
	ctx, span := middleware.StartSpan(ctx, "Recommender.Recommend",
		attribute.String("query", query),
		attribute.Int("limit", k),
	)
	defer span.End()

	result, err := r.recommend(ctx, query, k)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		r.log.Warn().
			Err(err).
			Str("request_id", middleware.GetRequestID(ctx)).
			Str("query", query).
			Msg("recommendation pipeline failed, using simple search")
		return r.fallback.Recommend(ctx, query, k)
	}

	middleware.AddSpanEvent(ctx, "recommendation_completed",
		attribute.Int("products", len(result.Products)),
		attribute.Int("answer_length", len(result.Answer)),
	)
	return result
}

// Search embeds the query and returns the nearest products without generating an answer
func (r *Recommender) Search(ctx context.Context, query string, k int) ([]*models.ScoredProduct, error) {
	vector, err := r.embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.search.Search(ctx, vector, k)
}

func (r *Recommender) recommend(ctx context.Context, query string, k int) (*models.RecommendationResult, error) {
	products, err := r.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	productContext := FormatContext(products)

	answer, err := r.generate(ctx, query, productContext)
	if err != nil {
		return nil, err
	}

	recommended := make([]models.RecommendedProduct, len(products))
	for i, p := range products {
		score := p.Score
		recommended[i] = models.NewRecommendedProduct(&p.Product, &score)
	}

	return &models.RecommendationResult{
		Answer:         answer,
		Products:       recommended,
		Context:        productContext,
		Query:          query,
		EmbeddingModel: r.embedder.Model(),
		LLMModel:       r.generator.Model(),
		Status:         models.StatusOK,
	}, nil
}

func (r *Recommender) embed(ctx context.Context, query string) ([]float32, error) {
	ctx, span := middleware.StartSpan(ctx, "Recommender.Embed",
		attribute.String("model", r.embedder.Model()),
	)
	defer span.End()

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return vector, nil
}

func (r *Recommender) generate(ctx context.Context, query, productContext string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "Recommender.Generate",
		attribute.String("model", r.generator.Model()),
		attribute.Int("context_length", len(productContext)),
	)
	defer span.End()

	answer, err := r.generator.Generate(ctx, advisorSystemPrompt, advisorUserPrompt(query, productContext))
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		err := fmt.Errorf("empty answer from %s: %w", r.generator.Model(), errs.ErrGenerationUnavailable)
		middleware.AddSpanError(ctx, err)
		return "", err
	}
	return answer, nil
}
