package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const salesNamespace = "pos.sales"

func mustDecimal128(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func TestMongoSaleRepository_ListByRange(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)

	mt.Run("Decimal128 e double legado", func(mt *mtest.T) {
		id1 := primitive.NewObjectID()
		id2 := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, salesNamespace, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: id1},
				{Key: "productId", Value: "65a1f0c2e4b0a1b2c3d4e5f6"},
				{Key: "quantity", Value: int32(2)},
				{Key: "amount", Value: mustDecimal128(t, "200.00")},
				{Key: "createdAt", Value: start},
			},
			bson.D{
				{Key: "_id", Value: id2},
				{Key: "quantity", Value: int32(1)},
				{Key: "amount", Value: 49.9},
				{Key: "createdAt", Value: end},
			},
		))

		repo := NewMongoSaleRepository(mt.DB)
		sales, err := repo.ListByRange(context.Background(), start, end)
		require.NoError(mt, err)
		require.Len(mt, sales, 2)

		assert.Equal(mt, id1.Hex(), sales[0].ID)
		assert.Equal(mt, "65a1f0c2e4b0a1b2c3d4e5f6", sales[0].ProductRef)
		assert.Equal(mt, 2, sales[0].Quantity)
		assert.True(mt, decimal.RequireFromString("200").Equal(sales[0].Amount))
		assert.True(mt, start.Equal(sales[0].CreatedAt))

		assert.False(mt, sales[1].HasProduct())
		assert.True(mt, decimal.RequireFromString("49.9").Equal(sales[1].Amount))
	})

	mt.Run("Falha do servidor", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		_, err := NewMongoSaleRepository(mt.DB).ListByRange(context.Background(), start, end)
		assert.Error(mt, err)
	})
}

func TestMongoSaleRepository_SummarizeByRange(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)

	mt.Run("Agregação do servidor", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, salesNamespace, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: nil},
				{Key: "totalAmount", Value: mustDecimal128(t, "150.00")},
				{Key: "count", Value: int32(2)},
			},
		))

		stats, err := NewMongoSaleRepository(mt.DB).SummarizeByRange(context.Background(), start, end)
		require.NoError(mt, err)
		assert.True(mt, decimal.RequireFromString("150").Equal(stats.TotalAmount))
		assert.Equal(mt, 2, stats.Count)
	})

	mt.Run("Sem vendas no intervalo", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, salesNamespace, mtest.FirstBatch))

		stats, err := NewMongoSaleRepository(mt.DB).SummarizeByRange(context.Background(), start, end)
		require.NoError(mt, err)
		assert.True(mt, stats.TotalAmount.IsZero())
		assert.Equal(mt, 0, stats.Count)
	})
}

func TestMongoSaleRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Gera ObjectID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		sale := &domain.Sale{
			ProductRef: "p1",
			Quantity:   1,
			Amount:     decimal.RequireFromString("10.50"),
			CreatedAt:  time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		}

		require.NoError(mt, NewMongoSaleRepository(mt.DB).Create(context.Background(), sale))

		_, err := primitive.ObjectIDFromHex(sale.ID)
		assert.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})
}

func TestDecimalFromRaw(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"Decimal128", mustDecimal128(t, "19.99"), "19.99"},
		{"Double", 7.5, "7.5"},
		{"Int32", int32(12), "12"},
		{"Int64", int64(300), "300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bsonType, data, err := bson.MarshalValue(tt.value)
			require.NoError(t, err)

			got, err := decimalFromRaw(bson.RawValue{Type: bsonType, Value: data})
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "obtido %s", got)
		})
	}

	_, data, err := bson.MarshalValue("dez")
	require.NoError(t, err)
	_, err = decimalFromRaw(bson.RawValue{Type: bson.TypeString, Value: data})
	assert.Error(t, err)
}
