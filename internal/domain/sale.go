package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale é um evento de venda concluída. Depois de criada nunca é alterada.
type Sale struct {
	ID         string          `json:"id"`
	ProductRef string          `json:"productId,omitempty"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// HasProduct indica se a venda referencia um produto do catálogo
func (s *Sale) HasProduct() bool {
	return s.ProductRef != ""
}

// NewSale representa o corpo de uma requisição de registro de venda
type NewSale struct {
	ProductRef string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
}
