package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var saleRowColumns = []string{"id", "product_id", "quantity", "amount", "created_at"}

func TestSaleRepository_ListByRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT s.id, s.product_id, s.quantity, s.amount, s.created_at FROM sales s " +
			"WHERE s.created_at >= $1 AND s.created_at <= $2 ORDER BY s.created_at ASC, s.id ASC",
	)).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(saleRowColumns).
			AddRow("s1", "p1", int64(2), "200.00", start).
			AddRow("s2", nil, int64(1), "50.5", end))

	repo := NewSaleRepository(db)
	sales, err := repo.ListByRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, sales, 2)

	assert.Equal(t, "s1", sales[0].ID)
	assert.Equal(t, "p1", sales[0].ProductRef)
	assert.Equal(t, 2, sales[0].Quantity)
	assert.True(t, decimal.RequireFromString("200").Equal(sales[0].Amount))
	assert.Equal(t, start, sales[0].CreatedAt)

	assert.Equal(t, "", sales[1].ProductRef, "venda sem produto deve ter referência vazia")
	assert.False(t, sales[1].HasProduct())
	assert.True(t, decimal.RequireFromString("50.5").Equal(sales[1].Amount))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_ListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT s.id, s.product_id, s.quantity, s.amount, s.created_at FROM sales s ORDER BY s.created_at DESC LIMIT 100",
	)).WillReturnRows(sqlmock.NewRows(saleRowColumns))

	repo := NewSaleRepository(db)
	sales, err := repo.ListRecent(context.Background(), 100)
	require.NoError(t, err)
	assert.NotNil(t, sales)
	assert.Empty(t, sales)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_SummarizeByRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(
		"SELECT COALESCE(SUM(s.amount), 0), COUNT(*) FROM sales s WHERE s.created_at >= $1 AND s.created_at <= $2",
	)

	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		wantTotal string
		wantCount int
		wantErr   bool
	}{
		{
			name: "Soma e contagem feitas pelo banco",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs(start, end).
					WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow("150.00", int64(2)))
			},
			wantTotal: "150",
			wantCount: 2,
		},
		{
			name: "Sem vendas retorna zero",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs(start, end).
					WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow("0", int64(0)))
			},
			wantTotal: "0",
			wantCount: 0,
		},
		{
			name: "Falha de conexão é propagada",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs(start, end).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)

			repo := NewSaleRepository(db)
			stats, err := repo.SummarizeByRange(context.Background(), start, end)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, stats)
			} else {
				require.NoError(t, err)
				assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(stats.TotalAmount))
				assert.Equal(t, tt.wantCount, stats.Count)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSaleRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO sales (id,product_id,quantity,amount,created_at) VALUES ($1,$2,$3,$4,$5)",
	)).
		WithArgs(sqlmock.AnyArg(), "p1", 2, "99.9", createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sale := &domain.Sale{
		ProductRef: "p1",
		Quantity:   2,
		Amount:     decimal.RequireFromString("99.90"),
		CreatedAt:  createdAt,
	}

	repo := NewSaleRepository(db)
	require.NoError(t, repo.Create(context.Background(), sale))
	assert.NotEmpty(t, sale.ID, "o id gerado deve ser preenchido na venda")

	assert.NoError(t, mock.ExpectationsWereMet())
}
