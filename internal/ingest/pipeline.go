package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"
	"paint-advisor/internal/textnorm"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSurface = "alvenaria"

// ProductStore is the natural-key upsert surface of the product repository
type ProductStore interface {
	FindByNaturalKey(ctx context.Context, name, color, line string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
}

// ProductIndexer embeds a stored product and upserts its vector
type ProductIndexer interface {
	IndexProduct(ctx context.Context, product *models.Product) error
}

// Summary reports one ingestion run
type Summary struct {
	RowsRead    int     `json:"linhas_lidas"`
	RowsIndexed int     `json:"linhas_indexadas"`
	RowsSkipped int     `json:"linhas_ignoradas"`
	Model       string  `json:"modelo"`
	Dimension   int     `json:"dim"`
	Mapping     Mapping `json:"mapping"`
}

type Pipeline struct {
	store     ProductStore
	indexer   ProductIndexer
	model     string
	dimension int
	log       zerolog.Logger
}

func NewPipeline(store ProductStore, indexer ProductIndexer, model string, dimension int, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		indexer:   indexer,
		model:     model,
		dimension: dimension,
		log:       log,
	}
}

// Run upserts every usable row by (nome, cor, linha) and indexes it.
// Rows without a name or color are skipped; a store or embedding failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*Summary, error) {
	ctx, span := middleware.StartSpan(ctx, "Ingest.Run", attribute.String("model", p.model))
	defer span.End()

	reader := newCSVReader(r)
	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Summary{Model: p.model, Dimension: p.dimension, Mapping: BuildMapping(nil)}, nil
	}
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	mapping := BuildMapping(headers)
	index := newHeaderIndex(headers)
	summary := &Summary{Model: p.model, Dimension: p.dimension, Mapping: mapping}

	p.log.Info().Strs("headers", headers).Interface("mapping", mapping).Msg("ingestion started")

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			middleware.AddSpanError(ctx, err)
			return summary, fmt.Errorf("failed to read csv row %d: %w", summary.RowsRead+2, err)
		}
		summary.RowsRead++

		product, ok := parseRow(row{index: index, mapping: mapping, record: record})
		if !ok {
			summary.RowsSkipped++
			continue
		}

		if err := p.upsert(ctx, product); err != nil {
			middleware.AddSpanError(ctx, err)
			return summary, fmt.Errorf("row %d: %w", summary.RowsRead+1, err)
		}
		summary.RowsIndexed++
	}

	middleware.AddSpanEvent(ctx, "ingestion_completed",
		attribute.Int("rows_read", summary.RowsRead),
		attribute.Int("rows_indexed", summary.RowsIndexed),
		attribute.Int("rows_skipped", summary.RowsSkipped),
	)
	p.log.Info().
		Int("rows_read", summary.RowsRead).
		Int("rows_indexed", summary.RowsIndexed).
		Int("rows_skipped", summary.RowsSkipped).
		Msg("ingestion finished")
	return summary, nil
}

func (p *Pipeline) upsert(ctx context.Context, product *models.Product) error {
	existing, err := p.store.FindByNaturalKey(ctx, product.Name, product.Color, product.Line)
	if err != nil {
		return err
	}

	if existing == nil {
		if err := p.store.Create(ctx, product); err != nil {
			return err
		}
	} else {
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
		if err := p.store.Save(ctx, product); err != nil {
			return err
		}
	}

	return p.indexer.IndexProduct(ctx, product)
}

// parseRow normalizes one CSV record into an unsaved product.
// It reports false when the record has no name or color.
func parseRow(r row) (*models.Product, bool) {
	name := r.get("nome", "")
	color := r.get("cor", "")
	if name == "" || color == "" {
		return nil, false
	}

	surface := r.get("superficie_indicada", "")
	if surface == "" {
		surface = defaultSurface
	}

	features := models.Features{}
	if header := r.mapping[FeaturesColumnKey]; header != "" {
		for _, token := range splitFeatures(r.column(header)) {
			if key := textnorm.Slug(token); key != "" {
				features[key] = true
			}
		}
	}

	return &models.Product{
		Name:         name,
		Color:        color,
		Surface:      surface,
		Environment:  textnorm.ClassifyEnvironment(r.get("ambiente", "")),
		Finish:       textnorm.ClassifyFinish(r.get("acabamento", "")),
		Features:     features,
		Line:         r.get("linha", ""),
		Description:  r.get("descricao", ""),
		CoverageRate: textnorm.ParseFloat(r.get("rendimento_m2_litro", "")),
		UVResistant:  textnorm.ParseBool(r.get("resistencia_uv", "")),
		LowVOC:       textnorm.ParseBool(r.get("voc_baixo", "")),
	}, true
}

func splitFeatures(raw string) []string {
	var tokens []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		if t := strings.TrimSpace(part); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func trimCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\ufeff", ""))
}
