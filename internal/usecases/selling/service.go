package selling

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const MaxRecentSales = 100

type Seller interface {
	Record(ctx context.Context, input domain.NewSale) (*domain.Sale, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error)
}

type Service struct {
	sales        repository.SaleRepository
	defaultLimit int
	now          func() time.Time
}

func NewService(sales repository.SaleRepository, defaultLimit int) *Service {
	if defaultLimit <= 0 || defaultLimit > MaxRecentSales {
		defaultLimit = MaxRecentSales
	}

	return &Service{
		sales:        sales,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// Record valida e grava uma venda no ledger. O horário é sempre o do servidor.
func (s *Service) Record(ctx context.Context, input domain.NewSale) (*domain.Sale, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity deve ser maior que zero", ErrInvalidSale)
	}
	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount não pode ser negativo", ErrInvalidSale)
	}

	sale := &domain.Sale{
		ProductRef: input.ProductRef,
		Quantity:   input.Quantity,
		Amount:     input.Amount,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("erro ao registrar venda: %w", err)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"sale_id":     sale.ID,
		"product_ref": sale.ProductRef,
	}).Info("Venda registrada")

	return sale, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error) {
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}

	sales, err := s.sales.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}

	return sales, nil
}
