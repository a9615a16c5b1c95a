package services

import (
	"fmt"
	"strings"

	"paint-advisor/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoProductsContext is the context handed to the model when the search found nothing
const NoProductsContext = "Nenhum produto encontrado na base de dados."

// FormatContext renders search hits as numbered product blocks separated by a blank line
func FormatContext(products []*models.ScoredProduct) string {
	if len(products) == 0 {
		return NoProductsContext
	}

	blocks := make([]string, 0, len(products))
	for i, p := range products {
		var b strings.Builder
		fmt.Fprintf(&b, "PRODUTO %d: %s\n", i+1, p.Name)
		fmt.Fprintf(&b, "- Cor: %s\n", p.Color)
		fmt.Fprintf(&b, "- Linha: %s\n", orNotAvailable(p.Line))
		fmt.Fprintf(&b, "- Superfície: %s\n", orNotAvailable(p.Surface))
		fmt.Fprintf(&b, "- Ambiente: %s\n", p.Environment)
		fmt.Fprintf(&b, "- Acabamento: %s\n", p.Finish)
		fmt.Fprintf(&b, "- Features: %s\n", formatFeatures(p.Features))
		fmt.Fprintf(&b, "- Descrição: %s\n", orNotAvailable(p.Description))
		fmt.Fprintf(&b, "- Score de Similaridade: %.3f", p.Score)
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n")
}

// formatFeatures lists present features as title-cased words, e.g. "anti_mofo" -> "Anti Mofo"
func formatFeatures(features models.Features) string {
	names := features.Enabled()
	if len(names) == 0 {
		return "N/A"
	}

	title := cases.Title(language.Und)
	labels := make([]string, len(names))
	for i, name := range names {
		labels[i] = title.String(strings.ReplaceAll(name, "_", " "))
	}
	return strings.Join(labels, ", ")
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
