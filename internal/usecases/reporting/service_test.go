package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

// quarta-feira, 17 de janeiro de 2024
var fixedNow = time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, money(want).Equal(got), append([]any{"esperado %s, obtido %s", want, got.String()}, msgAndArgs...)...)
}

func sale(id, ref string, qty int, amount string, at time.Time) *domain.Sale {
	return &domain.Sale{ID: id, ProductRef: ref, Quantity: qty, Amount: money(amount), CreatedAt: at}
}

// newLedger simula o banco: filtra pelo intervalo inclusivo e agrega no "servidor"
func newLedger(ctrl *gomock.Controller, sales []*domain.Sale) *mocks.MockSaleRepository {
	ledger := mocks.NewMockSaleRepository(ctrl)

	inRange := func(start, end time.Time) []*domain.Sale {
		result := make([]*domain.Sale, 0)
		for _, s := range sales {
			if !s.CreatedAt.Before(start) && !s.CreatedAt.After(end) {
				result = append(result, s)
			}
		}
		return result
	}

	ledger.EXPECT().
		ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, start, end time.Time) ([]*domain.Sale, error) {
			return inRange(start, end), nil
		}).
		AnyTimes()

	ledger.EXPECT().
		SummarizeByRange(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, start, end time.Time) (*domain.SalesStats, error) {
			stats := &domain.SalesStats{TotalAmount: decimal.Zero}
			for _, s := range inRange(start, end) {
				stats.TotalAmount = stats.TotalAmount.Add(s.Amount)
				stats.Count++
			}
			return stats, nil
		}).
		AnyTimes()

	return ledger
}

func newCatalog(ctrl *gomock.Controller, products ...domain.Product) *mocks.MockProductCatalog {
	catalog := mocks.NewMockProductCatalog(ctrl)

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	catalog.EXPECT().
		Lookup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ref string) (domain.ProductLookup, error) {
			if p, ok := byID[ref]; ok {
				return domain.Found(p), nil
			}
			return domain.Missing(), nil
		}).
		AnyTimes()

	return catalog
}

func newTestService(repos repoPair) *Service {
	s := NewService(repos.ledger, repos.catalog, time.UTC, 10)
	s.now = func() time.Time { return fixedNow }
	return s
}

type repoPair struct {
	ledger  *mocks.MockSaleRepository
	catalog *mocks.MockProductCatalog
}

func TestService_Stats_Example(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "p1", 1, "100", time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)),
		sale("s2", "p2", 1, "50", time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)),
	}
	service := newTestService(repoPair{newLedger(ctrl, sales), newCatalog(ctrl)})
	ctx := context.Background()

	day, err := service.Stats(ctx, domain.PeriodDay)
	require.NoError(t, err)
	assertMoney(t, "100", day.TotalAmount)
	assert.Equal(t, 1, day.Count)

	week, err := service.Stats(ctx, domain.PeriodWeek)
	require.NoError(t, err)
	assertMoney(t, "150", week.TotalAmount)
	assert.Equal(t, 2, week.Count)
}

func TestService_Stats_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(repoPair{newLedger(ctrl, nil), newCatalog(ctrl)})

	for _, tag := range domain.PeriodTags {
		stats, err := service.Stats(context.Background(), tag)
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.True(t, stats.TotalAmount.IsZero())
		assert.Equal(t, 0, stats.Count)
	}
}

func TestService_InvalidPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	// sem expectativas: nenhuma consulta pode ser feita para um período inválido
	service := newTestService(repoPair{mocks.NewMockSaleRepository(ctrl), mocks.NewMockProductCatalog(ctrl)})
	ctx := context.Background()

	_, err := service.Stats(ctx, "year")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = service.Series(ctx, "year")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = service.TopSellers(ctx, "year", 10)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestService_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	dbErr := errors.New("connection refused")

	ledger := mocks.NewMockSaleRepository(ctrl)
	ledger.EXPECT().SummarizeByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr)
	ledger.EXPECT().ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr).Times(2)

	service := newTestService(repoPair{ledger, mocks.NewMockProductCatalog(ctrl)})
	ctx := context.Background()

	_, err := service.Stats(ctx, domain.PeriodDay)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, dbErr)

	_, err = service.Series(ctx, domain.PeriodWeek)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = service.TopSellers(ctx, domain.PeriodMonth, 10)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestService_Series_Length(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(repoPair{newLedger(ctrl, nil), newCatalog(ctrl)})

	want := map[domain.PeriodTag]int{
		domain.PeriodDay:   1,
		domain.PeriodWeek:  7,
		domain.PeriodMonth: fixedNow.Day(),
	}

	for tag, length := range want {
		points, err := service.Series(context.Background(), tag)
		require.NoError(t, err)
		require.Len(t, points, length, "período %s", tag)
		for _, p := range points {
			assert.True(t, p.Value.IsZero(), "bucket %s deveria ser zero", p.Label)
		}
	}
}

func TestService_Series_Buckets(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "p1", 1, "10", time.Date(2024, 1, 13, 12, 0, 0, 0, time.UTC)), // sábado da semana anterior
		sale("s2", "p1", 1, "20", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),  // início exato da semana
		sale("s3", "p2", 2, "30", time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)),
		sale("s4", "p2", 1, "5.5", time.Date(2024, 1, 16, 18, 0, 0, 0, time.UTC)),
		sale("s5", "", 1, "40", fixedNow), // exatamente agora
	}
	service := newTestService(repoPair{newLedger(ctrl, sales), newCatalog(ctrl)})
	ctx := context.Background()

	week, err := service.Series(ctx, domain.PeriodWeek)
	require.NoError(t, err)

	values := make(map[string]string, len(week))
	for _, p := range week {
		values[p.Label] = p.Value.String()
	}
	assert.Equal(t, "0", values["Jan 13"], "vendas anteriores à segunda-feira ficam fora da semana")
	assert.Equal(t, "20", values["Jan 15"])
	assert.Equal(t, "35.5", values["Jan 16"])
	assert.Equal(t, "40", values["Jan 17"])
	assert.Equal(t, "Jan 11", week[0].Label)
	assert.Equal(t, "Jan 17", week[6].Label)

	month, err := service.Series(ctx, domain.PeriodMonth)
	require.NoError(t, err)
	assert.Equal(t, "10", month[12].Value.String())
	assert.Equal(t, "Jan 13", month[12].Label)

	day, err := service.Series(ctx, domain.PeriodDay)
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "Today", day[0].Label)
	assertMoney(t, "40", day[0].Value)
}

func TestService_SeriesReconcilesWithStats(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s0", "p1", 1, "999", time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)),
		sale("s1", "p1", 1, "10.10", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		sale("s2", "p2", 3, "7.35", time.Date(2024, 1, 9, 14, 0, 0, 0, time.UTC)),
		sale("s3", "p1", 1, "12", time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC)),
		sale("s4", "", 2, "3.33", time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)),
		sale("s5", "p3", 1, "0", time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)),
		sale("s6", "p3", 4, "81.2", fixedNow),
		sale("s7", "p3", 1, "1", fixedNow.Add(time.Second)), // futuro
	}
	service := newTestService(repoPair{newLedger(ctrl, sales), newCatalog(ctrl)})
	ctx := context.Background()

	for _, tag := range domain.PeriodTags {
		t.Run(string(tag), func(t *testing.T) {
			stats, err := service.Stats(ctx, tag)
			require.NoError(t, err)

			points, err := service.Series(ctx, tag)
			require.NoError(t, err)

			sum := decimal.Zero
			for _, p := range points {
				sum = sum.Add(p.Value)
			}
			assertMoney(t, stats.TotalAmount.String(), sum)

			period, err := Resolve(tag, fixedNow, time.UTC)
			require.NoError(t, err)
			count := 0
			for _, s := range sales {
				if period.Contains(s.CreatedAt) {
					count++
				}
			}
			assert.Equal(t, count, stats.Count)
		})
	}
}

func TestService_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "p1", 2, "20", time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)),
		sale("s2", "p2", 2, "30", time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)),
	}
	service := newTestService(repoPair{
		newLedger(ctrl, sales),
		newCatalog(ctrl, domain.Product{ID: "p1", Name: "Caneta"}),
	})
	ctx := context.Background()

	for _, tag := range domain.PeriodTags {
		s1, err := service.Stats(ctx, tag)
		require.NoError(t, err)
		s2, err := service.Stats(ctx, tag)
		require.NoError(t, err)
		assert.Equal(t, s1, s2)

		p1, err := service.Series(ctx, tag)
		require.NoError(t, err)
		p2, err := service.Series(ctx, tag)
		require.NoError(t, err)
		assert.Equal(t, p1, p2)

		t1, err := service.TopSellers(ctx, tag, 10)
		require.NoError(t, err)
		t2, err := service.TopSellers(ctx, tag, 10)
		require.NoError(t, err)
		assert.Equal(t, t1, t2)
	}
}

func TestService_TopSellers(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "p2", 1, "10", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		sale("s2", "p1", 2, "40", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)),
		sale("s3", "p2", 2, "20", time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)),
		sale("s4", "p1", 3, "60", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
		sale("s5", "", 9, "90", time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)),
	}
	catalog := newCatalog(ctrl,
		domain.Product{ID: "p1", Name: "Caderno", Images: []string{"/uploads/caderno.png"}},
		domain.Product{ID: "p2", Name: "Lápis"},
	)
	service := newTestService(repoPair{newLedger(ctrl, sales), catalog})

	top, err := service.TopSellers(context.Background(), domain.PeriodMonth, 10)
	require.NoError(t, err)
	require.Len(t, top, 2, "venda sem produto não entra no ranking")

	assert.Equal(t, "p1", top[0].ProductRef)
	assert.Equal(t, 5, top[0].TotalSold)
	assertMoney(t, "100", top[0].TotalAmount)
	assert.Equal(t, "Caderno", top[0].Name)
	assert.Equal(t, "/uploads/caderno.png", top[0].Image)
	assert.False(t, top[0].Missing)

	assert.Equal(t, "p2", top[1].ProductRef)
	assert.Equal(t, 3, top[1].TotalSold)
	assertMoney(t, "30", top[1].TotalAmount)
	assert.Equal(t, "", top[1].Image)
}

func TestService_TopSellers_TiesKeepFirstSeenOrder(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "c", 2, "1", time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)),
		sale("s2", "a", 2, "1", time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)),
		sale("s3", "b", 5, "1", time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)),
		sale("s4", "d", 2, "1", time.Date(2024, 1, 16, 11, 0, 0, 0, time.UTC)),
	}
	service := newTestService(repoPair{newLedger(ctrl, sales), newCatalog(ctrl)})

	top, err := service.TopSellers(context.Background(), domain.PeriodWeek, 10)
	require.NoError(t, err)

	refs := make([]string, 0, len(top))
	for _, entry := range top {
		refs = append(refs, entry.ProductRef)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, refs)
}

func TestService_TopSellers_Limit(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := make([]*domain.Sale, 0, 15)
	for i := 0; i < 15; i++ {
		ref := string(rune('a' + i))
		sales = append(sales, sale("s"+ref, ref, 15-i, "1", time.Date(2024, 1, 17, 8, i, 0, 0, time.UTC)))
	}
	service := newTestService(repoPair{newLedger(ctrl, sales), newCatalog(ctrl)})
	ctx := context.Background()

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 10},
		{limit: -3, want: 10},
		{limit: 3, want: 3},
		{limit: 10, want: 10},
		{limit: 50, want: 10},
	}

	for _, tt := range tests {
		top, err := service.TopSellers(ctx, domain.PeriodDay, tt.limit)
		require.NoError(t, err)
		require.Len(t, top, tt.want, "limit %d", tt.limit)

		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].TotalSold, top[i].TotalSold)
		}
		assert.Equal(t, "a", top[0].ProductRef)
	}
}

func TestService_TopSellers_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "p1", 1, "10", time.Date(2023, 12, 20, 9, 0, 0, 0, time.UTC)),
	}
	service := newTestService(repoPair{newLedger(ctrl, sales), mocks.NewMockProductCatalog(ctrl)})

	top, err := service.TopSellers(context.Background(), domain.PeriodMonth, 10)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestService_TopSellers_MissingProduct(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "deleted", 4, "40", time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)),
		sale("s2", "p1", 1, "10", time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)),
	}
	service := newTestService(repoPair{
		newLedger(ctrl, sales),
		newCatalog(ctrl, domain.Product{ID: "p1", Name: "Borracha"}),
	})

	top, err := service.TopSellers(context.Background(), domain.PeriodDay, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "deleted", top[0].ProductRef)
	assert.True(t, top[0].Missing)
	assert.Equal(t, "Unknown product", top[0].Name)
	assert.Equal(t, "/placeholder.png", top[0].Image)
	assert.Equal(t, 4, top[0].TotalSold)

	assert.False(t, top[1].Missing)
	assert.Equal(t, "Borracha", top[1].Name)
}

func TestService_TopSellers_CatalogFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	sales := []*domain.Sale{
		sale("s1", "p1", 1, "10", time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)),
	}
	catalog := mocks.NewMockProductCatalog(ctrl)
	catalog.EXPECT().Lookup(gomock.Any(), "p1").Return(domain.Missing(), errors.New("timeout"))

	service := newTestService(repoPair{newLedger(ctrl, sales), catalog})

	_, err := service.TopSellers(context.Background(), domain.PeriodDay, 10)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
