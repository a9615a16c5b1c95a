package repository

import (
	"context"
	"fmt"

	"paint-advisor/internal/models"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmbeddingRepositoryImpl handles vector operations using pgvector
type EmbeddingRepositoryImpl struct {
	db *gorm.DB
}

// NewEmbeddingRepository creates a new embedding repository
func NewEmbeddingRepository(db *gorm.DB) *EmbeddingRepositoryImpl {
	return &EmbeddingRepositoryImpl{db: db}
}

// Upsert stores the vector and its source text for a product, replacing any previous one
func (r *EmbeddingRepositoryImpl) Upsert(ctx context.Context, productID uuid.UUID, vector []float32, content string) error {
	row := &models.ProductEmbedding{
		ProductID: productID,
		Embedding: pgvector.NewVector(vector),
		Content:   content,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tinta_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding", "conteudo", "atualizado_em"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

// SemanticSearch returns the k products nearest to the query vector.
// The <=> operator is pgvector's cosine distance; score = 1 - distance.
func (r *EmbeddingRepositoryImpl) SemanticSearch(ctx context.Context, queryEmbedding []float32, k int) ([]*models.ScoredProduct, error) {
	vec := pgvector.NewVector(queryEmbedding)

	var results []*models.ScoredProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			t.*,
			e.conteudo,
			1 - (e.embedding <=> ?) AS score
		FROM embeddings_tintas e
		JOIN tintas t ON t.id = e.tinta_id
		ORDER BY e.embedding <=> ?
		LIMIT ?
	`, vec, vec, k).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to perform semantic search: %w", err)
	}

	return results, nil
}

func (r *EmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductEmbedding{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return count, nil
}
