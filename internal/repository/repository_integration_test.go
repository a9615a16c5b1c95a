//go:build integration

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"paint-advisor/internal/db"
	"paint-advisor/internal/errs"
	"paint-advisor/internal/models"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testDim = 3

// setupDatabase starts pgvector in a container and returns a bootstrapped gorm handle
func setupDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"pgvector/pgvector:pg17",
		postgres.WithDatabase("tintas_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/tintas_test?sslmode=disable", host, port.Port())

	// Wait with lib/pq before handing the database to gorm
	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer sqlDB.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for sqlDB.PingContext(pingCtx) != nil {
		select {
		case <-pingCtx.Done():
			t.Fatal("database not ready after 30 seconds")
		case <-time.After(100 * time.Millisecond):
		}
	}

	gdb, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Bootstrap(gdb, testDim))

	return gdb
}

func newProduct(name, color, line, description string) *models.Product {
	return &models.Product{
		Name:        name,
		Color:       color,
		Surface:     "alvenaria",
		Environment: models.EnvironmentIndoor,
		Finish:      models.FinishMatte,
		Features:    models.Features{"lavavel": true},
		Line:        line,
		Description: description,
	}
}

func TestRepositoriesAgainstPostgres(t *testing.T) {
	gdb := setupDatabase(t)
	ctx := context.Background()

	products := NewProductRepository(gdb)
	embeddings := NewEmbeddingRepository(gdb)
	users := NewUserRepository(gdb)

	royal := newProduct("Azul Royal", "Azul", "Premium", "tinta para quartos")
	sand := newProduct("Areia", "Bege", "", "fachadas 100% laváveis")
	require.NoError(t, products.Create(ctx, royal))
	require.NoError(t, products.Create(ctx, sand))

	t.Run("natural key ignores case and treats empty line as null", func(t *testing.T) {
		found, err := products.FindByNaturalKey(ctx, "AZUL ROYAL", "azul", "Premium")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, royal.ID, found.ID)
		assert.True(t, found.Features["lavavel"])

		found, err = products.FindByNaturalKey(ctx, "areia", "BEGE", "")
		require.NoError(t, err)
		require.NotNil(t, found)

		found, err = products.FindByNaturalKey(ctx, "Azul Royal", "Azul", "Standard")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("substring search is case-insensitive and escapes wildcards", func(t *testing.T) {
		hits, err := products.SearchByText(ctx, "AZUL", 5)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Azul Royal", hits[0].Name)

		hits, err = products.SearchByText(ctx, "%", 5)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Areia", hits[0].Name)
	})

	t.Run("semantic search orders by similarity", func(t *testing.T) {
		require.NoError(t, embeddings.Upsert(ctx, royal.ID, []float32{1, 0, 0}, royal.EmbeddingContent()))
		require.NoError(t, embeddings.Upsert(ctx, sand.ID, []float32{0, 1, 0}, sand.EmbeddingContent()))
		// second upsert replaces the first
		require.NoError(t, embeddings.Upsert(ctx, sand.ID, []float32{0.7, 0.7, 0}, "areia bege"))

		count, err := embeddings.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		hits, err := embeddings.SemanticSearch(ctx, []float32{1, 0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, royal.ID, hits[0].ID)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
		assert.Equal(t, "areia bege", hits[1].Content)
		assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	})

	t.Run("update and delete cascade", func(t *testing.T) {
		updated, err := products.Update(ctx, royal.ID, map[string]interface{}{"cor": "Azul Escuro"})
		require.NoError(t, err)
		assert.Equal(t, "Azul Escuro", updated.Color)

		require.NoError(t, products.Delete(ctx, royal.ID))
		_, err = products.GetByID(ctx, royal.ID)
		assert.ErrorIs(t, err, errs.ErrProductNotFound)

		count, err := embeddings.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		assert.ErrorIs(t, products.Delete(ctx, royal.ID), errs.ErrProductNotFound)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		require.NoError(t, users.Create(ctx, &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}))
		err := users.Create(ctx, &models.User{Name: "Ana 2", Email: "ana@example.com", PasswordHash: "y"})
		assert.ErrorIs(t, err, errs.ErrEmailAlreadyExists)

		user, err := users.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, models.RoleReader, user.Role)
	})
}
