package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const productsCollection = "products"

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Price       bson.RawValue      `bson:"price"`
	Quantity    int                `bson:"quantity"`
	Images      []string           `bson:"images"`
	Category    string             `bson:"category"`
}

type mongoProductCatalog struct {
	collection *mongo.Collection
}

func NewMongoProductCatalog(db *mongo.Database) ProductCatalog {
	return &mongoProductCatalog{
		collection: db.Collection(productsCollection),
	}
}

func (r *mongoProductCatalog) Lookup(ctx context.Context, productRef string) (domain.ProductLookup, error) {
	id, err := primitive.ObjectIDFromHex(productRef)
	if err != nil {
		// referência que não é um ObjectID nunca existiu no catálogo
		return domain.Missing(), nil
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Missing(), nil
		}
		return domain.Missing(), errors.Wrapf(err, "buscar produto %s", productRef)
	}

	price, err := decimalFromRaw(doc.Price)
	if err != nil {
		return domain.Missing(), errors.Wrapf(err, "produto %s", productRef)
	}

	return domain.Found(domain.Product{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Price:       price,
		Quantity:    doc.Quantity,
		Images:      doc.Images,
		Category:    doc.Category,
	}), nil
}
