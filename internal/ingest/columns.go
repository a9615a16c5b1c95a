// Package ingest loads the paint catalog from a spreadsheet export into the store and
// the vector index.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"paint-advisor/internal/textnorm"
)

// FeaturesTextHeader is the free-text column whose comma separated tokens become feature flags
const FeaturesTextHeader = "Features relevantes"

// FeaturesColumnKey is the mapping entry that points at the features text column
const FeaturesColumnKey = "_features_text_col"

type fieldAliases struct {
	field   string
	aliases []string
}

// Aliases are compared after slugging, so spelling variants of the same header collapse.
var columnAliases = []fieldAliases{
	{"nome", []string{"nome", "nome_da_tinta", "produto", "nome_tinta", "Nome da tinta"}},
	{"cor", []string{"cor", "tom", "cor_nome", "cor_tinta", "Cor"}},
	{"superficie_indicada", []string{"superficie_indicada", "superficie", "tipo_de_superficie", "superficie_recomendada", "superfície_indicada", "Tipo de superfície indicada"}},
	{"ambiente", []string{"ambiente", "ambiente_indicado", "ambiente_(interno/externo)", "uso", "Ambiente"}},
	{"acabamento", []string{"acabamento", "tipo_de_acabamento", "Tipo de acabamento"}},
	{"linha", []string{"linha", "linha_produto", "segmento", "Linha"}},
	{"descricao", []string{"descricao", "descrição", "observacoes", "observações", "detalhes"}},
	{"rendimento_m2_litro", []string{"rendimento", "rendimento_m2_litro", "rendimento_(m2/litro)", "rendimento_m2_l"}},
	{"resistencia_uv", []string{"resistencia_uv", "resistente_uv", "resistência_uv", "resistencia_ao_sol"}},
	{"voc_baixo", []string{"voc_baixo", "baixo_voc", "voc"}},
}

// Mapping maps each catalog field to the CSV header that feeds it ("" when absent)
type Mapping map[string]string

// BuildMapping matches CSV headers to catalog fields by slug
func BuildMapping(headers []string) Mapping {
	bySlug := make(map[string]string, len(headers))
	for _, h := range headers {
		slug := textnorm.Slug(h)
		if _, seen := bySlug[slug]; !seen {
			bySlug[slug] = h
		}
	}

	mapping := make(Mapping, len(columnAliases)+1)
	for _, fa := range columnAliases {
		mapping[fa.field] = ""
		for _, alias := range fa.aliases {
			if header, ok := bySlug[textnorm.Slug(alias)]; ok {
				mapping[fa.field] = header
				break
			}
		}
	}

	for _, h := range headers {
		if h == FeaturesTextHeader {
			mapping[FeaturesColumnKey] = h
			break
		}
	}
	return mapping
}

// SniffResult is the header row of a CSV and how it would be mapped
type SniffResult struct {
	Headers []string `json:"fieldnames"`
	Mapping Mapping  `json:"mapping"`
}

// Sniff reads only the header row
func Sniff(r io.Reader) (*SniffResult, error) {
	reader := newCSVReader(r)
	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &SniffResult{Headers: []string{}, Mapping: BuildMapping(nil)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	return &SniffResult{Headers: headers, Mapping: BuildMapping(headers)}, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// row gives mapped access to one CSV record
type row struct {
	index   map[string]int
	mapping Mapping
	record  []string
}

func newHeaderIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}
	return index
}

// get returns the trimmed value for a catalog field, or def when the field is unmapped
func (r row) get(field, def string) string {
	header := r.mapping[field]
	if header == "" {
		return def
	}
	return r.column(header)
}

func (r row) column(header string) string {
	i, ok := r.index[header]
	if !ok || i >= len(r.record) {
		return ""
	}
	return trimCell(r.record[i])
}
