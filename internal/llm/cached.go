package llm

import (
	"context"
	"errors"

	"paint-advisor/internal/cache"
	"paint-advisor/internal/config"

	"github.com/rs/zerolog"
)

// VectorCache is satisfied by cache.EmbeddingCache
type VectorCache interface {
	Get(ctx context.Context, text string) ([]float32, error)
	Put(ctx context.Context, text string, vector []float32) error
}

// CachedEmbedder serves repeated texts from the cache. Cache failures are logged
// and never fail the embedding itself.
type CachedEmbedder struct {
	next  Embedder
	cache VectorCache
	log   zerolog.Logger
}

func NewCachedEmbedder(next Embedder, cache VectorCache, log zerolog.Logger) *CachedEmbedder {
	return &CachedEmbedder{next: next, cache: cache, log: log}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.cache.Get(ctx, text)
	if err == nil {
		return vector, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		e.log.Warn().Err(err).Msg("embedding cache read failed")
	}

	vector, err = e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Put(ctx, text, vector); err != nil {
		e.log.Warn().Err(err).Msg("embedding cache write failed")
	}
	return vector, nil
}

func (e *CachedEmbedder) Model() string {
	return e.next.Model()
}

// WithRedisCache wraps embedder with a Redis-backed cache when REDIS_ADDR is set.
// An unreachable Redis is logged and the embedder is returned unwrapped.
// The returned close function is never nil.
func WithRedisCache(ctx context.Context, cfg *config.Config, embedder Embedder, log zerolog.Logger) (Embedder, func() error) {
	noop := func() error { return nil }
	if cfg.RedisAddr == "" {
		return embedder, noop
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("embedding cache disabled")
		return embedder, noop
	}

	log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.EmbeddingCacheTTL).Msg("embedding cache enabled")
	embeddings := cache.NewEmbeddingCache(client, embedder.Model(), cfg.EmbeddingCacheTTL)
	return NewCachedEmbedder(embedder, embeddings, log), client.Close
}
