package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const salesCollection = "sales"

type saleDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID string             `bson:"productId,omitempty"`
	Quantity  int                `bson:"quantity"`
	Amount    bson.RawValue      `bson:"amount"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type mongoSaleRepository struct {
	collection *mongo.Collection
}

func NewMongoSaleRepository(db *mongo.Database) SaleRepository {
	return &mongoSaleRepository{
		collection: db.Collection(salesCollection),
	}
}

func (r *mongoSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	amount, err := decimalToBSON(sale.Amount)
	if err != nil {
		return errors.Wrap(err, "converter valor da venda")
	}

	id := primitive.NewObjectID()
	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "quantity", Value: sale.Quantity},
		{Key: "amount", Value: amount},
		{Key: "createdAt", Value: sale.CreatedAt},
	}
	if sale.HasProduct() {
		doc = append(doc, bson.E{Key: "productId", Value: sale.ProductRef})
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(err, "inserir venda")
	}

	sale.ID = id.Hex()
	return nil
}

func (r *mongoSaleRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoSaleRepository) ListByRange(ctx context.Context, start, end time.Time) ([]*domain.Sale, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	return r.find(ctx, rangeFilter(start, end), opts)
}

func (r *mongoSaleRepository) SummarizeByRange(ctx context.Context, start, end time.Time) (*domain.SalesStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(start, end)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "agregar vendas")
	}
	defer cursor.Close(ctx)

	stats := &domain.SalesStats{}
	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, errors.Wrap(err, "ler agregação de vendas")
		}
		return stats, nil
	}

	var result struct {
		TotalAmount bson.RawValue `bson:"totalAmount"`
		Count       int           `bson:"count"`
	}
	if err := cursor.Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decodificar agregação de vendas")
	}

	total, err := decimalFromRaw(result.TotalAmount)
	if err != nil {
		return nil, errors.Wrap(err, "converter total de vendas")
	}
	stats.TotalAmount = total
	stats.Count = result.Count

	return stats, nil
}

func (r *mongoSaleRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*domain.Sale, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "buscar vendas")
	}
	defer cursor.Close(ctx)

	sales := make([]*domain.Sale, 0)
	for cursor.Next(ctx) {
		var doc saleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decodificar venda")
		}

		amount, err := decimalFromRaw(doc.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "venda %s", doc.ID.Hex())
		}

		sales = append(sales, &domain.Sale{
			ID:         doc.ID.Hex(),
			ProductRef: doc.ProductID,
			Quantity:   doc.Quantity,
			Amount:     amount,
			CreatedAt:  doc.CreatedAt,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "iterar vendas")
	}

	return sales, nil
}

func rangeFilter(start, end time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": start, "$lte": end}}
}
