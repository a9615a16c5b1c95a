package api

import (
	"context"

	"paint-advisor/internal/models"
	"paint-advisor/internal/services"

	"github.com/google/uuid"
)

// Handlers consume these interfaces; the concrete services live in internal/services.

// ProductCatalog is product CRUD plus reindexing
type ProductCatalog interface {
	Create(ctx context.Context, req *models.ProductCreate) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reindex(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*services.CatalogStats, error)
}

// ProductRecommender answers free-text questions about the catalog
type ProductRecommender interface {
	Recommend(ctx context.Context, query string, k int) *models.RecommendationResult
	Search(ctx context.Context, query string, k int) ([]*models.ScoredProduct, error)
}

// TextEmbedder is the embedding provider, used directly only by the connectivity check
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Authenticator manages accounts and access tokens
type Authenticator interface {
	Signup(ctx context.Context, req *models.UserCreate) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	ParseToken(token string) (*models.TokenClaims, error)
}
