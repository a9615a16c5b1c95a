package services

import (
	"context"
	"fmt"
	"sort"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// SimilaritySearch returns the products nearest to a query vector
type SimilaritySearch struct {
	vectors VectorSearcher
}

func NewSimilaritySearch(vectors VectorSearcher) *SimilaritySearch {
	return &SimilaritySearch{vectors: vectors}
}

// Search returns at most k products ordered by non-increasing score (1 - cosine distance).
// Equal scores keep the order the store returned them in.
func (s *SimilaritySearch) Search(ctx context.Context, queryEmbedding []float32, k int) ([]*models.ScoredProduct, error) {
	ctx, span := middleware.StartSpan(ctx, "SimilaritySearch.Search",
		attribute.Int("k", k),
		attribute.Int("dimensions", len(queryEmbedding)),
	)
	defer span.End()

	if k < 1 {
		return nil, fmt.Errorf("k=%d: %w", k, errs.ErrInvalidLimit)
	}

	results, err := s.vectors.SemanticSearch(ctx, queryEmbedding, k)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, fmt.Errorf("%w: %v", errs.ErrSearchUnavailable, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}

	middleware.AddSpanEvent(ctx, "search_completed", attribute.Int("results", len(results)))
	return results, nil
}
