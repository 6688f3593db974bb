package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

const (
	salesTable = "sales s"
)

var saleColumns = []string{
	"s.id",
	"s.product_id",
	"s.quantity",
	"s.amount",
	"s.created_at",
}

type saleRepository struct {
	conn postgres.Queryer
}

func NewSaleRepository(conn postgres.Queryer) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	id, err := utils.GenerateID()
	if err != nil {
		return fmt.Errorf("erro ao gerar id da venda: %w", err)
	}

	var productID sql.NullString
	if sale.HasProduct() {
		productID = sql.NullString{String: sale.ProductRef, Valid: true}
	}

	query, args, err := squirrel.
		Insert("sales").
		Columns("id", "product_id", "quantity", "amount", "created_at").
		Values(id, productID, sale.Quantity, sale.Amount, sale.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	sale.ID = id
	return nil
}

func (r *saleRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error) {
	query, args, err := squirrel.
		Select(saleColumns...).
		From(salesTable).
		OrderBy("s.created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.querySales(ctx, query, args...)
}

func (r *saleRepository) ListByRange(ctx context.Context, start, end time.Time) ([]*domain.Sale, error) {
	query, args, err := squirrel.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.GtOrEq{"s.created_at": start}).
		Where(squirrel.LtOrEq{"s.created_at": end}).
		OrderBy("s.created_at ASC", "s.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.querySales(ctx, query, args...)
}

func (r *saleRepository) SummarizeByRange(ctx context.Context, start, end time.Time) (*domain.SalesStats, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(s.amount), 0)", "COUNT(*)").
		From(salesTable).
		Where(squirrel.GtOrEq{"s.created_at": start}).
		Where(squirrel.LtOrEq{"s.created_at": end}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	stats := &domain.SalesStats{}
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&stats.TotalAmount, &stats.Count); err != nil {
		return nil, fmt.Errorf("erro ao somar vendas: %w", err)
	}

	return stats, nil
}

func (r *saleRepository) querySales(ctx context.Context, query string, args ...any) ([]*domain.Sale, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)
	for rows.Next() {
		sale, err := r.scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return sales, nil
}

func (r *saleRepository) scanSale(rows *sql.Rows) (*domain.Sale, error) {
	sale := &domain.Sale{}
	var productID sql.NullString

	err := rows.Scan(
		&sale.ID,
		&productID,
		&sale.Quantity,
		&sale.Amount,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sale.ProductRef = productID.String
	return sale, nil
}
