package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCatalog_Lookup(t *testing.T) {
	query := regexp.QuoteMeta(
		"SELECT p.id, p.name, p.description, p.price, p.quantity, p.images, p.category FROM products p WHERE p.id = $1",
	)
	columns := []string{"id", "name", "description", "price", "quantity", "images", "category"}

	t.Run("Produto encontrado", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("p1", "Teclado", nil, "99.90", int64(3), "{/uploads/a.png,/uploads/b.png}", "Peripherals"))

		lookup, err := NewProductCatalog(db).Lookup(context.Background(), "p1")
		require.NoError(t, err)

		product, ok := lookup.Get()
		require.True(t, ok)
		assert.Equal(t, "Teclado", product.Name)
		assert.Equal(t, "", product.Description)
		assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, product.Images)
		assert.Equal(t, "/uploads/a.png", product.FirstImage())
		assert.Equal(t, "Peripherals", product.Category)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Produto removido do catálogo", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).
			WithArgs("gone").
			WillReturnRows(sqlmock.NewRows(columns))

		lookup, err := NewProductCatalog(db).Lookup(context.Background(), "gone")
		require.NoError(t, err)

		_, ok := lookup.Get()
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Referência vazia não consulta o banco", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		lookup, err := NewProductCatalog(db).Lookup(context.Background(), "")
		require.NoError(t, err)

		_, ok := lookup.Get()
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Falha do banco é propagada", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).
			WithArgs("p1").
			WillReturnError(errors.New("connection reset"))

		_, err = NewProductCatalog(db).Lookup(context.Background(), "p1")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
