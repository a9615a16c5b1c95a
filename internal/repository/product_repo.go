package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepositoryImpl handles catalog reads and writes using GORM
type ProductRepositoryImpl struct {
	db *gorm.DB
}

// NewProductRepository returns the concrete type; services declare the interface they need
func NewProductRepository(db *gorm.DB) *ProductRepositoryImpl {
	return &ProductRepositoryImpl{db: db}
}

// Create inserts a product; the UUID is assigned in the BeforeCreate hook
func (r *ProductRepositoryImpl) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product

	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %s: %w", id, errs.ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// List returns products ordered by name, then id
func (r *ProductRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product

	err := r.db.WithContext(ctx).
		Order("nome").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// Update applies the given columns and returns the stored product
func (r *ProductRepositoryImpl) Update(ctx context.Context, id uuid.UUID, columns map[string]interface{}) (*models.Product, error) {
	if len(columns) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.Product{ID: id}).
			Updates(columns)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("product %s: %w", id, errs.ErrProductNotFound)
		}
	}

	return r.GetByID(ctx, id)
}

// Save writes every field of an existing product
func (r *ProductRepositoryImpl) Save(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// Delete removes a product; its embedding goes with it through the foreign key
func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, errs.ErrProductNotFound)
	}
	return nil
}

// FindByNaturalKey looks a product up by (name, color, line).
// Name and color compare case-insensitively; an empty line matches NULL.
// Returns nil, nil when no product matches.
func (r *ProductRepositoryImpl) FindByNaturalKey(ctx context.Context, name, color, line string) (*models.Product, error) {
	var product models.Product

	err := r.db.WithContext(ctx).
		Where("LOWER(nome) = LOWER(?) AND LOWER(cor) = LOWER(?) AND COALESCE(linha, '') = ?",
			name, color, line).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by natural key: %w", err)
	}

	return &product, nil
}

// SearchByText does a case-insensitive substring match on name, color and description.
// LIKE wildcards in the query match literally.
func (r *ProductRepositoryImpl) SearchByText(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var products []*models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(nome) LIKE ? OR LOWER(cor) LIKE ? OR LOWER(descricao) LIKE ?",
			pattern, pattern, pattern).
		Order("nome").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// escapeLike escapes the LIKE metacharacters using Postgres' default escape character
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
