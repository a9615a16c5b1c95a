package services

import (
	"context"
	"testing"

	"paint-advisor/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recommenderFixture struct {
	products    *memoryProducts
	embeddings  *memoryEmbeddings
	embedder    *keywordEmbedder
	generator   *fakeGenerator
	recommender *Recommender
}

func newRecommenderFixture(t *testing.T) *recommenderFixture {
	t.Helper()

	royal := paint("Azul Royal", "Azul", "tinta para quartos")
	sand := paint("Areia Clara", "Bege", "fachadas")
	products := newMemoryProducts(royal, sand)
	embeddings := newMemoryEmbeddings(products)
	require.NoError(t, embeddings.Upsert(context.Background(), royal.ID, []float32{1, 0, 0}, royal.EmbeddingContent()))
	require.NoError(t, embeddings.Upsert(context.Background(), sand.ID, []float32{0, 1, 0}, sand.EmbeddingContent()))

	embedder := &keywordEmbedder{vectors: map[string][]float32{
		"quarto":  {0.9, 0.1, 0},
		"fachada": {0.1, 0.9, 0},
	}}
	generator := &fakeGenerator{answer: "  Para quartos, recomendo a **Azul Royal**.  "}

	recommender := NewRecommender(
		embedder,
		NewSimilaritySearch(embeddings),
		generator,
		NewFallbackSearch(products),
		zerolog.Nop(),
	)

	return &recommenderFixture{
		products:    products,
		embeddings:  embeddings,
		embedder:    embedder,
		generator:   generator,
		recommender: recommender,
	}
}

func TestRecommendHappyPath(t *testing.T) {
	f := newRecommenderFixture(t)

	result := f.recommender.Recommend(context.Background(), "tinta para quarto", 1)

	assert.Equal(t, models.StatusOK, result.Status)
	assert.Equal(t, "Para quartos, recomendo a **Azul Royal**.", result.Answer)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Azul Royal", result.Products[0].Name)
	require.NotNil(t, result.Products[0].Score)
	assert.Greater(t, *result.Products[0].Score, 0.9)
	assert.Equal(t, "fake-embedding", result.EmbeddingModel)
	assert.Equal(t, "fake-llm", result.LLMModel)
	assert.Equal(t, "tinta para quarto", result.Query)
	assert.Contains(t, result.Context, "PRODUTO 1: Azul Royal")

	assert.Equal(t, advisorSystemPrompt, f.generator.lastSystem)
	assert.Contains(t, f.generator.lastUser, `"tinta para quarto"`)
	assert.Contains(t, f.generator.lastUser, result.Context)
}

func TestRecommendFallsBackOnEmbeddingFailure(t *testing.T) {
	f := newRecommenderFixture(t)
	f.embedder.err = errBoom

	result := f.recommender.Recommend(context.Background(), "AZUL", 3)

	assert.Equal(t, models.StatusFallback, result.Status)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Azul Royal", result.Products[0].Name)
	assert.Nil(t, result.Products[0].Score)
	assert.Equal(t, "Busca simples por: AZUL", result.Context)
	assert.Equal(t, "Encontrei 1 produto(s) para 'AZUL'\n\nRecomendo: **Azul Royal** - Azul\n• Ambiente: interno\n• Acabamento: fosco", result.Answer)
	assert.Empty(t, result.EmbeddingModel)
}

func TestRecommendFallsBackOnGenerationFailure(t *testing.T) {
	f := newRecommenderFixture(t)
	f.generator.err = errBoom

	result := f.recommender.Recommend(context.Background(), "azul", 3)
	assert.Equal(t, models.StatusFallback, result.Status)
}

func TestRecommendTreatsEmptyAnswerAsFailure(t *testing.T) {
	f := newRecommenderFixture(t)
	f.generator.answer = "   "

	result := f.recommender.Recommend(context.Background(), "azul", 3)
	assert.Equal(t, models.StatusFallback, result.Status)
}

func TestRecommendFallsBackOnSearchFailure(t *testing.T) {
	f := newRecommenderFixture(t)
	f.embeddings.err = errBoom

	result := f.recommender.Recommend(context.Background(), "bege", 3)
	assert.Equal(t, models.StatusFallback, result.Status)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Areia Clara", result.Products[0].Name)
}

func TestFallbackWithoutMatches(t *testing.T) {
	f := newRecommenderFixture(t)
	f.embedder.err = errBoom

	result := f.recommender.Recommend(context.Background(), "verniz", 3)
	assert.Equal(t, models.StatusFallback, result.Status)
	assert.Empty(t, result.Products)
	assert.Equal(t, "Não encontrei produtos específicos para 'verniz'. Pode ser mais específico sobre o que precisa?", result.Answer)
}

func TestFallbackStoreErrorIsReportedAsResult(t *testing.T) {
	f := newRecommenderFixture(t)
	f.embedder.err = errBoom
	f.products.errOnAll = errBoom

	result := f.recommender.Recommend(context.Background(), "azul", 3)
	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, "Erro no sistema de recomendação: boom", result.Answer)
	assert.Empty(t, result.Products)
	assert.Empty(t, result.Context)
}

func TestFallbackIsCaseInsensitive(t *testing.T) {
	products := newMemoryProducts(paint("Azul Royal", "Azul", ""))
	fallback := NewFallbackSearch(products)

	upper := fallback.Recommend(context.Background(), "AZUL", 3)
	lower := fallback.Recommend(context.Background(), "azul", 3)
	assert.Equal(t, upper.Products, lower.Products)
	assert.Len(t, upper.Products, 1)
}

func TestSearchExposesScoresAndContent(t *testing.T) {
	f := newRecommenderFixture(t)

	results, err := f.recommender.Search(context.Background(), "fachada", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Areia Clara", results[0].Name)
	assert.NotEmpty(t, results[0].Content)

	f.embedder.err = errBoom
	_, err = f.recommender.Search(context.Background(), "fachada", 2)
	assert.ErrorIs(t, err, errBoom)
}
