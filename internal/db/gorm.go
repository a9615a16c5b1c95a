package db

import (
	"fmt"
	"time"

	"paint-advisor/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB wraps the GORM database instance
type GormDB struct {
	*gorm.DB
}

// NewGorm opens the connection and prepares the schema for an embedding dimension
func NewGorm(dsn string, embeddingDim int, log zerolog.Logger) (*GormDB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Bootstrap(db, embeddingDim); err != nil {
		return nil, err
	}

	log.Info().Int("embedding_dim", embeddingDim).Msg("database connected and migrated")

	return &GormDB{db}, nil
}

// Bootstrap enables pgvector, migrates the catalog and user tables and creates the
// embedding table. The embedding table is created with raw SQL because its vector
// column carries the configured dimension.
func Bootstrap(db *gorm.DB, embeddingDim int) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS embeddings_tintas (
			tinta_id uuid PRIMARY KEY REFERENCES tintas(id) ON DELETE CASCADE,
			embedding vector(%d) NOT NULL,
			conteudo text NOT NULL,
			atualizado_em timestamptz NOT NULL DEFAULT NOW()
		)`, embeddingDim)).Error
	if err != nil {
		return fmt.Errorf("failed to create embeddings table: %w", err)
	}

	// hnsw instead of ivfflat: ivfflat picks its lists at build time and the table starts empty
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_embeddings_tintas_vector
		ON embeddings_tintas USING hnsw (embedding vector_cosine_ops)
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *GormDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
