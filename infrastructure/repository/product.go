package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const (
	productsTable = "products p"
)

type productCatalog struct {
	conn postgres.Queryer
}

func NewProductCatalog(conn postgres.Queryer) ProductCatalog {
	return &productCatalog{
		conn: conn,
	}
}

func (r *productCatalog) Lookup(ctx context.Context, productRef string) (domain.ProductLookup, error) {
	if productRef == "" {
		return domain.Missing(), nil
	}

	query, args, err := squirrel.
		Select("p.id", "p.name", "p.description", "p.price", "p.quantity", "p.images", "p.category").
		From(productsTable).
		Where(squirrel.Eq{"p.id": productRef}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.Missing(), fmt.Errorf("erro ao construir a query: %w", err)
	}

	product := domain.Product{}
	var description, category sql.NullString

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&product.ID,
		&product.Name,
		&description,
		&product.Price,
		&product.Quantity,
		pq.Array(&product.Images),
		&category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Missing(), nil
		}
		return domain.Missing(), fmt.Errorf("erro ao escanear produto: %w", err)
	}

	product.Description = description.String
	product.Category = category.String

	return domain.Found(product), nil
}
