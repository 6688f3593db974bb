// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// SaleRepository é o ledger de vendas: apenas inclusão e leitura
type SaleRepository interface {
	// Create grava a venda e preenche o ID gerado pelo banco
	Create(ctx context.Context, sale *domain.Sale) error
	// ListRecent retorna as últimas vendas, da mais nova para a mais antiga
	ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error)
	// ListByRange retorna as vendas com start <= createdAt <= end em ordem cronológica
	ListByRange(ctx context.Context, start, end time.Time) ([]*domain.Sale, error)
	// SummarizeByRange soma valores e conta as vendas do intervalo no próprio banco
	SummarizeByRange(ctx context.Context, start, end time.Time) (*domain.SalesStats, error)
}

// ProductCatalog é a visão somente leitura do catálogo de produtos
type ProductCatalog interface {
	// Lookup nunca retorna erro para produto inexistente, apenas domain.Missing()
	Lookup(ctx context.Context, productRef string) (domain.ProductLookup, error)
}

// Pinger é implementado pelas conexões de banco e usado no healthcheck
type Pinger interface {
	Ping(ctx context.Context) error
}
