package services

import (
	"context"
	"fmt"

	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// FallbackSearch answers with a case-insensitive substring match when the
// embedding or generation path is unavailable
type FallbackSearch struct {
	products TextSearcher
}

func NewFallbackSearch(products TextSearcher) *FallbackSearch {
	return &FallbackSearch{products: products}
}

// Recommend never returns an error; a failing store yields a result with status "erro"
func (f *FallbackSearch) Recommend(ctx context.Context, query string, k int) *models.RecommendationResult {
	ctx, span := middleware.StartSpan(ctx, "FallbackSearch.Recommend",
		attribute.String("query", query),
		attribute.Int("limit", k),
	)
	defer span.End()

	products, err := f.products.SearchByText(ctx, query, k)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return &models.RecommendationResult{
			Answer:   fmt.Sprintf("Erro no sistema de recomendação: %v", err),
			Products: []models.RecommendedProduct{},
			Context:  "",
			Query:    query,
			Status:   models.StatusError,
		}
	}

	recommended := make([]models.RecommendedProduct, len(products))
	for i, p := range products {
		recommended[i] = models.NewRecommendedProduct(p, nil)
	}

	return &models.RecommendationResult{
		Answer:   fallbackAnswer(query, products),
		Products: recommended,
		Context:  "Busca simples por: " + query,
		Query:    query,
		Status:   models.StatusFallback,
	}
}

func fallbackAnswer(query string, products []*models.Product) string {
	if len(products) == 0 {
		return fmt.Sprintf("Não encontrei produtos específicos para '%s'. Pode ser mais específico sobre o que precisa?", query)
	}

	first := products[0]
	return fmt.Sprintf("Encontrei %d produto(s) para '%s'\n\nRecomendo: **%s** - %s\n• Ambiente: %s\n• Acabamento: %s",
		len(products), query, first.Name, first.Color, first.Environment, first.Finish)
}
