package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesStats é o total agregado das vendas de um período
type SalesStats struct {
	TotalAmount decimal.Decimal
	Count       int
}

// SeriesPoint é um bucket do gráfico de tendência
type SeriesPoint struct {
	Label string
	Value decimal.Decimal
}

type TopSeller struct {
	ProductRef  string
	Name        string
	Image       string
	TotalSold   int
	TotalAmount decimal.Decimal
	// Missing indica que o produto não existe mais no catálogo e os campos de exibição são genéricos
	Missing bool
}

// SalesSnapshot é a fotografia periódica gerada pelo agendador
type SalesSnapshot struct {
	TakenAt    time.Time                `json:"taken_at"`
	Stats      map[PeriodTag]SalesStats `json:"stats"`
	TopSellers []TopSeller              `json:"top_sellers"`
}
