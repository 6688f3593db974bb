package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Images      []string        `json:"images"`
	Category    string          `json:"category"`
}

// FirstImage retorna a imagem de capa do produto, ou vazio quando não há imagens
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductLookup é o resultado de uma consulta ao catálogo: Found(produto) ou Missing.
// O valor zero equivale a Missing.
type ProductLookup struct {
	product *Product
}

func Found(product Product) ProductLookup {
	return ProductLookup{product: &product}
}

func Missing() ProductLookup {
	return ProductLookup{}
}

// Get devolve o produto e true quando ele existe no catálogo
func (l ProductLookup) Get() (Product, bool) {
	if l.product == nil {
		return Product{}, false
	}
	return *l.product, true
}
