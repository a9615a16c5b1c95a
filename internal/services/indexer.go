package services

import (
	"context"
	"fmt"
	"sync"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

/*
Reindex worker pool.

A fixed number of workers read product ids from a buffered channel. Each job loads the
product, rebuilds its embedding content, embeds it and upserts the embedding row.
A full queue blocks Submit until a worker frees a slot. Shutdown stops intake and lets
the workers drain what is already queued.
*/

// ReindexJob asks for one product's embedding to be rebuilt
type ReindexJob struct {
	ProductID uuid.UUID
}

type IndexerImpl struct {
	embedder   Embedder
	products   ProductReader
	embeddings EmbeddingWriter
	log        zerolog.Logger

	jobs    chan ReindexJob
	workers int
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

func NewIndexer(
	embedder Embedder,
	products ProductReader,
	embeddings EmbeddingWriter,
	numWorkers int,
	queueSize int,
	log zerolog.Logger,
) *IndexerImpl {
	ctx, cancel := context.WithCancel(context.Background())

	return &IndexerImpl{
		embedder:   embedder,
		products:   products,
		embeddings: embeddings,
		log:        log,
		jobs:       make(chan ReindexJob, queueSize),
		workers:    numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers
func (s *IndexerImpl) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	s.log.Info().Int("workers", s.workers).Int("queue_size", cap(s.jobs)).Msg("reindex worker pool started")
}

func (s *IndexerImpl) worker(id int) {
	defer s.wg.Done()

	for job := range s.jobs {
		if err := s.process(job); err != nil {
			s.log.Error().Err(err).Int("worker", id).Str("product_id", job.ProductID.String()).Msg("reindex failed")
			continue
		}
		s.log.Debug().Int("worker", id).Str("product_id", job.ProductID.String()).Msg("product reindexed")
	}
}

// Submit queues a product. It blocks while the queue is full and fails once Shutdown has begun.
func (s *IndexerImpl) Submit(ctx context.Context, productID uuid.UUID) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return errs.ErrIndexerShuttingDown
	}

	select {
	case s.jobs <- ReindexJob{ProductID: productID}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to queue reindex of %s: %w", productID, ctx.Err())
	case <-s.ctx.Done():
		return errs.ErrIndexerShuttingDown
	}
}

func (s *IndexerImpl) process(job ReindexJob) error {
	ctx, span := middleware.StartSpan(s.ctx, "Indexer.Reindex",
		attribute.String("product_id", job.ProductID.String()),
	)
	defer span.End()

	product, err := s.products.GetByID(ctx, job.ProductID)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return fmt.Errorf("failed to load product: %w", err)
	}

	if err := s.IndexProduct(ctx, product); err != nil {
		middleware.AddSpanError(ctx, err)
		return err
	}
	return nil
}

// IndexProduct embeds a product's content and stores it, synchronously
func (s *IndexerImpl) IndexProduct(ctx context.Context, product *models.Product) error {
	content := product.EmbeddingContent()

	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to embed product %s: %w", product.ID, err)
	}

	if err := s.embeddings.Upsert(ctx, product.ID, vector, content); err != nil {
		return fmt.Errorf("failed to store embedding for product %s: %w", product.ID, err)
	}
	return nil
}

// Shutdown stops accepting jobs and waits for the queue to drain. When ctx expires
// first, in-flight embedding calls are cancelled.
func (s *IndexerImpl) Shutdown(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Int("pending", len(s.jobs)).Msg("reindex drain timed out, cancelling workers")
		s.cancel()
		<-done
	}
	s.cancel()

	s.log.Info().Msg("reindex worker pool stopped")
}

// QueueLength returns the number of pending jobs
func (s *IndexerImpl) QueueLength() int {
	return len(s.jobs)
}
