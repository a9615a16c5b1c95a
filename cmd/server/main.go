package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paint-advisor/internal/api"
	"paint-advisor/internal/config"
	"paint-advisor/internal/db"
	"paint-advisor/internal/llm"
	"paint-advisor/internal/logging"
	"paint-advisor/internal/repository"
	"paint-advisor/internal/services"
	"paint-advisor/internal/telemetry"

	"github.com/rs/zerolog"
)

const serviceName = "paint-advisor"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", "console")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	// Tracing first so every later step is traced
	shutdownTracing, err := telemetry.InitJaeger(serviceName, cfg.JaegerEndpoint, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize tracing, continuing without it")
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	database, err := db.NewGorm(cfg.DatabaseURL(), cfg.EmbeddingDim, log)
	if err != nil {
		return err
	}
	defer database.Close()

	embedder, err := llm.NewEmbedder(ctx, cfg, log)
	if err != nil {
		return err
	}
	embedder, closeCache := llm.WithRedisCache(ctx, cfg, embedder, log)
	defer closeCache()

	generator, err := llm.NewGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}

	productRepo := repository.NewProductRepository(database.DB)
	embeddingRepo := repository.NewEmbeddingRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	indexer := services.NewIndexer(embedder, productRepo, embeddingRepo, cfg.ReindexWorkers, cfg.ReindexQueueSize, log)
	indexer.Start()

	catalog := services.NewCatalogService(productRepo, embeddingRepo, indexer, log)
	recommender := services.NewRecommender(
		embedder,
		services.NewSimilaritySearch(embeddingRepo),
		generator,
		services.NewFallbackSearch(productRepo),
		log,
	)
	auth, err := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	handler := api.NewHandler(catalog, recommender, auth, embedder, log)
	router := api.SetupRoutes(handler, log)

	server := newHTTPServer(cfg, router)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("embedding_model", embedder.Model()).
			Str("llm_model", generator.Model()).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil {
			indexer.Shutdown(ctx)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shut down")
	}

	// Drain queued reindex jobs after the server stops accepting writes
	indexer.Shutdown(shutdownCtx)

	log.Info().Msg("shutdown complete")
	return nil
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Generation calls can take a while; keep this above the provider timeout
		WriteTimeout: cfg.HTTPClientTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
