// Command paint-advisor-ingest loads the paint catalog from CSV and inspects embeddings.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"paint-advisor/internal/config"
	"paint-advisor/internal/db"
	"paint-advisor/internal/ingest"
	"paint-advisor/internal/llm"
	"paint-advisor/internal/logging"
	"paint-advisor/internal/repository"
	"paint-advisor/internal/services"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "paint-advisor-ingest",
	Short: "Load the paint catalog from CSV and build its embeddings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = logging.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newIndexCmd(), newSniffCmd(), newEmbedCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <csv>",
		Short: "Upsert every CSV row into the catalog and index it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer file.Close()

			database, err := db.NewGorm(cfg.DatabaseURL(), cfg.EmbeddingDim, logger)
			if err != nil {
				return err
			}
			defer database.Close()

			embedder, err := llm.NewEmbedder(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("create embedder: %w", err)
			}
			embedder, closeCache := llm.WithRedisCache(ctx, cfg, embedder, logger)
			defer closeCache()

			products := repository.NewProductRepository(database.DB)
			embeddings := repository.NewEmbeddingRepository(database.DB)
			indexer := services.NewIndexer(embedder, products, embeddings, 1, 1, logger)

			pipeline := ingest.NewPipeline(products, indexer, embedder.Model(), cfg.EmbeddingDim, logger)
			summary, err := pipeline.Run(ctx, file)
			if summary != nil {
				printJSON(cmd, summary)
			}
			return err
		},
	}
}

func newSniffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sniff <csv>",
		Short: "Print the CSV headers and how they map to catalog fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer file.Close()

			result, err := ingest.Sniff(file)
			if err != nil {
				return err
			}
			printJSON(cmd, result)
			return nil
		},
	}
}

func newEmbedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "embed <text>",
		Short: "Embed a text and print the vector as a pgvector literal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			embedder, err := llm.NewEmbedder(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("create embedder: %w", err)
			}

			vector, err := embedder.Embed(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), llm.VectorLiteral(vector))
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to print result")
	}
}
