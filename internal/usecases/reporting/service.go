package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const (
	MaxTopSellers = 10

	unknownProductName  = "Unknown product"
	unknownProductImage = "/placeholder.png"
)

type Reporter interface {
	Stats(ctx context.Context, tag domain.PeriodTag) (*domain.SalesStats, error)
	Series(ctx context.Context, tag domain.PeriodTag) ([]domain.SeriesPoint, error)
	TopSellers(ctx context.Context, tag domain.PeriodTag, limit int) ([]domain.TopSeller, error)
}

type Service struct {
	sales        repository.SaleRepository
	catalog      repository.ProductCatalog
	location     *time.Location
	defaultLimit int
	now          func() time.Time
}

func NewService(
	sales repository.SaleRepository,
	catalog repository.ProductCatalog,
	location *time.Location,
	defaultLimit int,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		sales:        sales,
		catalog:      catalog,
		location:     location,
		defaultLimit: clampLimit(defaultLimit, MaxTopSellers),
		now:          time.Now,
	}
}

func (s *Service) resolve(tag domain.PeriodTag) (domain.Period, error) {
	return Resolve(tag, s.now(), s.location)
}

// Stats soma e conta as vendas do período. A agregação é feita pelo banco.
func (s *Service) Stats(ctx context.Context, tag domain.PeriodTag) (*domain.SalesStats, error) {
	period, err := s.resolve(tag)
	if err != nil {
		return nil, err
	}

	stats, err := s.sales.SummarizeByRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, storeUnavailable("stats", err)
	}
	if stats == nil {
		stats = &domain.SalesStats{}
	}

	return stats, nil
}

// Series distribui os valores das vendas do período em buckets preenchidos com zero
func (s *Service) Series(ctx context.Context, tag domain.PeriodTag) ([]domain.SeriesPoint, error) {
	period, err := s.resolve(tag)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, storeUnavailable("series", err)
	}

	plan := planBuckets(period, s.location)

	points := make([]domain.SeriesPoint, len(plan.labels))
	index := make(map[string]int, len(plan.labels))
	for i, label := range plan.labels {
		points[i] = domain.SeriesPoint{Label: label, Value: decimal.Zero}
		index[label] = i
	}

	for _, sale := range sales {
		if !period.Contains(sale.CreatedAt) {
			continue
		}

		i, ok := index[plan.labelOf(sale.CreatedAt)]
		if !ok {
			log.ForContext(ctx).WithField("period", string(tag)).
				Warnf("Venda %s fora dos buckets do período", sale.ID)
			continue
		}
		points[i].Value = points[i].Value.Add(sale.Amount)
	}

	return points, nil
}

// TopSellers agrupa as vendas por produto e devolve os mais vendidos por quantidade.
// Empates mantêm a ordem da primeira venda de cada produto.
func (s *Service) TopSellers(ctx context.Context, tag domain.PeriodTag, limit int) ([]domain.TopSeller, error) {
	period, err := s.resolve(tag)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, storeUnavailable("top sellers", err)
	}

	ranked := rankByQuantity(sales, period)

	limit = clampLimit(limit, s.defaultLimit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	logger := log.ForContext(ctx).WithField("period", string(tag))
	for i := range ranked {
		lookup, err := s.catalog.Lookup(ctx, ranked[i].ProductRef)
		if err != nil {
			return nil, storeUnavailable("catalog lookup", err)
		}

		product, ok := lookup.Get()
		if !ok {
			logger.WithField("product_ref", ranked[i].ProductRef).
				Warn("Produto vendido não existe mais no catálogo")
			ranked[i].Name = unknownProductName
			ranked[i].Image = unknownProductImage
			ranked[i].Missing = true
			continue
		}

		ranked[i].Name = product.Name
		ranked[i].Image = product.FirstImage()
	}

	return ranked, nil
}

func rankByQuantity(sales []*domain.Sale, period domain.Period) []domain.TopSeller {
	ranked := make([]domain.TopSeller, 0)
	position := make(map[string]int)

	for _, sale := range sales {
		if !sale.HasProduct() || !period.Contains(sale.CreatedAt) {
			continue
		}

		i, ok := position[sale.ProductRef]
		if !ok {
			i = len(ranked)
			position[sale.ProductRef] = i
			ranked = append(ranked, domain.TopSeller{ProductRef: sale.ProductRef, TotalAmount: decimal.Zero})
		}

		ranked[i].TotalSold += sale.Quantity
		ranked[i].TotalAmount = ranked[i].TotalAmount.Add(sale.Amount)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].TotalSold > ranked[b].TotalSold
	})

	return ranked
}

// clampLimit aplica o padrão para valores não positivos e o teto de MaxTopSellers
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit <= 0 || limit > MaxTopSellers {
		return MaxTopSellers
	}
	return limit
}
