package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ProductEmbedding holds the vector for one product.
// Content is the exact text the vector was computed from (see Product.EmbeddingContent).
// The table is created by db.Bootstrap so the vector dimension follows config.
type ProductEmbedding struct {
	ProductID uuid.UUID       `json:"tinta_id" gorm:"column:tinta_id;type:uuid;primaryKey"`
	Embedding pgvector.Vector `json:"-" gorm:"column:embedding;type:vector;not null"`
	Content   string          `json:"conteudo" gorm:"column:conteudo;type:text;not null"`
	UpdatedAt time.Time       `json:"atualizado_em" gorm:"column:atualizado_em;autoUpdateTime"`
}

func (ProductEmbedding) TableName() string {
	return "embeddings_tintas"
}

// ScoredProduct is a similarity search hit: the product, the stored content and score = 1 - cosine distance
type ScoredProduct struct {
	Product
	Content string  `json:"conteudo" gorm:"column:conteudo"`
	Score   float64 `json:"score" gorm:"column:score"`
}
