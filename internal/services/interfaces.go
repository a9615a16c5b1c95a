package services

import (
	"context"

	"paint-advisor/internal/models"

	"github.com/google/uuid"
)

// Interfaces are declared here, where they are consumed; repository and llm
// return concrete types that satisfy them.

// ProductRepository is what the catalog service needs from product storage
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, columns map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// ProductReader loads a single product
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// TextSearcher is the substring search used by the fallback
type TextSearcher interface {
	SearchByText(ctx context.Context, query string, limit int) ([]*models.Product, error)
}

// VectorSearcher is the nearest-neighbour primitive
type VectorSearcher interface {
	SemanticSearch(ctx context.Context, queryEmbedding []float32, k int) ([]*models.ScoredProduct, error)
}

// EmbeddingWriter replaces a product's embedding
type EmbeddingWriter interface {
	Upsert(ctx context.Context, productID uuid.UUID, vector []float32, content string) error
}

// EmbeddingCounter reports how many products are indexed
type EmbeddingCounter interface {
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Generator produces an answer for a system + user prompt pair
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Reindexer queues a product for embedding
type Reindexer interface {
	Submit(ctx context.Context, productID uuid.UUID) error
	QueueLength() int
}
