package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Environment string

const (
	EnvironmentIndoor  Environment = "interno"
	EnvironmentOutdoor Environment = "externo"
)

type Finish string

const (
	FinishMatte     Finish = "fosco"
	FinishSatin     Finish = "acetinado"
	FinishSemiGloss Finish = "semibrilho"
	FinishGloss     Finish = "brilho"
)

// Product is one paint in the catalog.
// (Name, Color, Line) is the natural key used by ingestion to decide insert vs update.
type Product struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string      `json:"nome" gorm:"column:nome;type:varchar(255);not null;index"`
	Color        string      `json:"cor" gorm:"column:cor;type:varchar(255);not null;index"`
	Surface      string      `json:"superficie_indicada" gorm:"column:superficie_indicada;type:varchar(255);index"`
	Environment  Environment `json:"ambiente" gorm:"column:ambiente;type:varchar(20);not null"`
	Finish       Finish      `json:"acabamento" gorm:"column:acabamento;type:varchar(20);not null"`
	Features     Features    `json:"features" gorm:"column:features;type:jsonb;not null;default:'{}'"`
	Line         string      `json:"linha" gorm:"column:linha;type:varchar(100);index"`
	Description  string      `json:"descricao" gorm:"column:descricao;type:text;not null;default:''"`
	CoverageRate *float64    `json:"rendimento_m2_litro" gorm:"column:rendimento_m2_litro;type:numeric(10,2)"`
	UVResistant  *bool       `json:"resistencia_uv" gorm:"column:resistencia_uv"`
	LowVOC       *bool       `json:"voc_baixo" gorm:"column:voc_baixo"`
	CreatedAt    time.Time   `json:"criado_em" gorm:"column:criado_em;autoCreateTime"`
	UpdatedAt    time.Time   `json:"atualizado_em" gorm:"column:atualizado_em;autoUpdateTime"`
}

func (Product) TableName() string {
	return "tintas"
}

// BeforeCreate assigns a UUID when the caller did not
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Features == nil {
		p.Features = Features{}
	}
	return nil
}

// EmbeddingContent is the text the product's embedding is computed from.
// Any change to these fields requires a new embedding.
func (p *Product) EmbeddingContent() string {
	parts := []string{
		p.Name,
		p.Color,
		p.Surface,
		string(p.Environment),
		string(p.Finish),
		p.Line,
		p.Description,
	}
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, " ")
}

type ProductCreate struct {
	Name         string      `json:"nome" validate:"required,max=255"`
	Color        string      `json:"cor" validate:"required,max=255"`
	Surface      string      `json:"superficie_indicada" validate:"required,max=255"`
	Environment  Environment `json:"ambiente" validate:"required,oneof=interno externo"`
	Finish       Finish      `json:"acabamento" validate:"required,oneof=fosco acetinado semibrilho brilho"`
	Features     Features    `json:"features"`
	Line         string      `json:"linha" validate:"max=100"`
	Description  string      `json:"descricao"`
	CoverageRate *float64    `json:"rendimento_m2_litro" validate:"omitempty,gt=0"`
	UVResistant  *bool       `json:"resistencia_uv"`
	LowVOC       *bool       `json:"voc_baixo"`
}

// ToProduct builds a new, unsaved product
func (c *ProductCreate) ToProduct() *Product {
	features := c.Features
	if features == nil {
		features = Features{}
	}
	return &Product{
		Name:         strings.TrimSpace(c.Name),
		Color:        strings.TrimSpace(c.Color),
		Surface:      strings.TrimSpace(c.Surface),
		Environment:  c.Environment,
		Finish:       c.Finish,
		Features:     features,
		Line:         strings.TrimSpace(c.Line),
		Description:  c.Description,
		CoverageRate: c.CoverageRate,
		UVResistant:  c.UVResistant,
		LowVOC:       c.LowVOC,
	}
}

// ProductUpdate is a partial update; nil fields are left untouched
type ProductUpdate struct {
	Name         *string      `json:"nome,omitempty" validate:"omitempty,min=1,max=255"`
	Color        *string      `json:"cor,omitempty" validate:"omitempty,min=1,max=255"`
	Surface      *string      `json:"superficie_indicada,omitempty" validate:"omitempty,max=255"`
	Environment  *Environment `json:"ambiente,omitempty" validate:"omitempty,oneof=interno externo"`
	Finish       *Finish      `json:"acabamento,omitempty" validate:"omitempty,oneof=fosco acetinado semibrilho brilho"`
	Features     Features     `json:"features,omitempty"`
	Line         *string      `json:"linha,omitempty" validate:"omitempty,max=100"`
	Description  *string      `json:"descricao,omitempty"`
	CoverageRate *float64     `json:"rendimento_m2_litro,omitempty" validate:"omitempty,gt=0"`
	UVResistant  *bool        `json:"resistencia_uv,omitempty"`
	LowVOC       *bool        `json:"voc_baixo,omitempty"`
}

// Columns returns the column -> value map for gorm's Updates
func (u *ProductUpdate) Columns() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["nome"] = strings.TrimSpace(*u.Name)
	}
	if u.Color != nil {
		updates["cor"] = strings.TrimSpace(*u.Color)
	}
	if u.Surface != nil {
		updates["superficie_indicada"] = strings.TrimSpace(*u.Surface)
	}
	if u.Environment != nil {
		updates["ambiente"] = *u.Environment
	}
	if u.Finish != nil {
		updates["acabamento"] = *u.Finish
	}
	if u.Features != nil {
		updates["features"] = u.Features
	}
	if u.Line != nil {
		updates["linha"] = strings.TrimSpace(*u.Line)
	}
	if u.Description != nil {
		updates["descricao"] = *u.Description
	}
	if u.CoverageRate != nil {
		updates["rendimento_m2_litro"] = *u.CoverageRate
	}
	if u.UVResistant != nil {
		updates["resistencia_uv"] = *u.UVResistant
	}
	if u.LowVOC != nil {
		updates["voc_baixo"] = *u.LowVOC
	}
	return updates
}

// TouchesContent reports whether the update changes a field that feeds the embedding
func (u *ProductUpdate) TouchesContent() bool {
	return u.Name != nil || u.Color != nil || u.Surface != nil ||
		u.Environment != nil || u.Finish != nil || u.Line != nil || u.Description != nil
}
