// Package textnorm canonicalizes free text coming from CSV files and API input.
//
// Every classifier here is total: unknown input maps to a default value instead of
// failing, so a messy spreadsheet never aborts an ingestion run.
package textnorm

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"paint-advisor/internal/models"
)

// StripAccents removes combining marks after compatibility decomposition ("Açaí" -> "Acai").
// A fresh transformer is built per call because transform chains carry state.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces trims s and replaces every run of whitespace with a single space
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold trims, lower-cases, strips accents and collapses whitespace
func Fold(s string) string {
	return CollapseSpaces(StripAccents(strings.ToLower(strings.TrimSpace(s))))
}

var slugSeparators = strings.NewReplacer(
	" ", "_",
	"-", "_",
	"/", "_",
	"\\", "_",
	"(", "_",
	")", "_",
	".", "_",
)

// Slug turns a CSV header or feature token into a snake_case key.
// "Tipo de superfície indicada" -> "tipo_de_superficie_indicada"
func Slug(s string) string {
	s = strings.ReplaceAll(s, "\ufeff", "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = StripAccents(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	s = CollapseSpaces(s)
	s = slugSeparators.Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

var (
	indoorAliases = map[string]struct{}{
		"interno": {}, "interior": {}, "dentro": {}, "area interna": {}, "indoor": {},
	}
	outdoorAliases = map[string]struct{}{
		"externo": {}, "exterior": {}, "fora": {}, "area externa": {}, "fachada": {}, "outdoor": {},
	}

	matteAliases = map[string]struct{}{
		"fosco": {}, "mate": {}, "matte": {}, "fosco completo": {},
	}
	satinAliases = map[string]struct{}{
		"acetinado": {}, "satin": {}, "seda": {},
	}
	semiGlossAliases = map[string]struct{}{
		"semibrilho": {}, "semi brilho": {}, "eggshell": {}, "egg shell": {}, "casca de ovo": {}, "semi gloss": {},
	}
	glossAliases = map[string]struct{}{
		"brilho": {}, "brilhante": {}, "alto brilho": {}, "gloss": {},
	}
)

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

// ClassifyEnvironment maps free text to an environment, defaulting to indoor
func ClassifyEnvironment(v string) models.Environment {
	x := CollapseSpaces(strings.ReplaceAll(Fold(v), "-", " "))
	switch {
	case has(indoorAliases, x):
		return models.EnvironmentIndoor
	case has(outdoorAliases, x):
		return models.EnvironmentOutdoor
	default:
		return models.EnvironmentIndoor
	}
}

// ClassifyFinish maps free text to a finish, defaulting to matte
func ClassifyFinish(v string) models.Finish {
	x := Fold(v)
	x = CollapseSpaces(strings.NewReplacer("-", " ", "_", " ").Replace(x))
	switch {
	case has(matteAliases, x):
		return models.FinishMatte
	case has(satinAliases, x):
		return models.FinishSatin
	case has(semiGlossAliases, x):
		return models.FinishSemiGloss
	case has(glossAliases, x):
		return models.FinishGloss
	default:
		return models.FinishMatte
	}
}

var (
	truthy = map[string]struct{}{
		"1": {}, "true": {}, "t": {}, "yes": {}, "y": {}, "sim": {}, "s": {}, "verdadeiro": {},
	}
	falsy = map[string]struct{}{
		"0": {}, "false": {}, "f": {}, "no": {}, "n": {}, "nao": {}, "falso": {},
	}
)

// ParseBool reads yes/no style values in English or Portuguese.
// Returns nil when the value is empty or unrecognized.
func ParseBool(v string) *bool {
	x := Fold(v)
	if x == "" {
		return nil
	}
	if has(truthy, x) {
		b := true
		return &b
	}
	if has(falsy, x) {
		b := false
		return &b
	}
	return nil
}

// ParseFloat reads a decimal number, accepting a comma as decimal separator.
// Returns nil for empty, null-like or malformed values.
func ParseFloat(v string) *float64 {
	x := strings.TrimSpace(v)
	switch strings.ToLower(x) {
	case "", "null", "none", "nan":
		return nil
	}
	if strings.Contains(x, ",") && !strings.Contains(x, ".") {
		x = strings.ReplaceAll(x, ",", ".")
	}
	f, err := strconv.ParseFloat(x, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
