package services

import (
	"context"
	"fmt"

	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// CatalogService is product CRUD plus keeping embeddings in step with content
type CatalogService struct {
	products   ProductRepository
	embeddings EmbeddingCounter
	indexer    Reindexer
	log        zerolog.Logger
}

func NewCatalogService(products ProductRepository, embeddings EmbeddingCounter, indexer Reindexer, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		embeddings: embeddings,
		indexer:    indexer,
		log:        log,
	}
}

// CatalogStats counts products, indexed products and reindex jobs still queued
type CatalogStats struct {
	Products    int64 `json:"total_tintas"`
	Embeddings  int64 `json:"total_embeddings"`
	QueueLength int   `json:"queue_length"`
}

func (s *CatalogService) Create(ctx context.Context, req *models.ProductCreate) (*models.Product, error) {
	ctx, span := middleware.StartSpan(ctx, "Catalog.Create", attribute.String("name", req.Name))
	defer span.End()

	product := req.ToProduct()
	if err := s.products.Create(ctx, product); err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, err
	}

	s.queueReindex(ctx, product.ID)
	return product, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	return s.products.List(ctx, limit, offset)
}

// Update applies a partial update; content changes trigger a reindex
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req *models.ProductUpdate) (*models.Product, error) {
	ctx, span := middleware.StartSpan(ctx, "Catalog.Update", attribute.String("product_id", id.String()))
	defer span.End()

	product, err := s.products.Update(ctx, id, req.Columns())
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, err
	}

	if req.TouchesContent() {
		s.queueReindex(ctx, id)
	}
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := middleware.StartSpan(ctx, "Catalog.Delete", attribute.String("product_id", id.String()))
	defer span.End()

	if err := s.products.Delete(ctx, id); err != nil {
		middleware.AddSpanError(ctx, err)
		return err
	}
	return nil
}

// Reindex queues an existing product for a fresh embedding
func (s *CatalogService) Reindex(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.indexer.Submit(ctx, id); err != nil {
		return fmt.Errorf("failed to queue reindex: %w", err)
	}
	return nil
}

func (s *CatalogService) Stats(ctx context.Context) (*CatalogStats, error) {
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	embeddings, err := s.embeddings.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogStats{
		Products:    products,
		Embeddings:  embeddings,
		QueueLength: s.indexer.QueueLength(),
	}, nil
}

// queueReindex never fails the write that triggered it; a missed job is logged
// and can be repeated through Reindex
func (s *CatalogService) queueReindex(ctx context.Context, id uuid.UUID) {
	if err := s.indexer.Submit(ctx, id); err != nil {
		middleware.AddSpanError(ctx, err)
		s.log.Warn().Err(err).Str("product_id", id.String()).Msg("product saved but not queued for reindex")
	}
}
