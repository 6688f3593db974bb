package repository

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decimalFromRaw converte valores monetários gravados como Decimal128, double ou inteiro.
// Documentos antigos guardam "amount" como double.
func decimalFromRaw(raw bson.RawValue) (decimal.Decimal, error) {
	switch raw.Type {
	case bsontype.Decimal128:
		d128, ok := raw.Decimal128OK()
		if !ok {
			return decimal.Zero, errors.New("decimal128 inválido")
		}
		value, err := decimal.NewFromString(d128.String())
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "decimal128 %q", d128.String())
		}
		return value, nil
	case bsontype.Double:
		return decimal.NewFromFloat(raw.Double()), nil
	case bsontype.Int32:
		return decimal.NewFromInt32(raw.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(raw.Int64()), nil
	case bsontype.Null, bsontype.Undefined, 0:
		return decimal.Zero, nil
	}

	return decimal.Zero, errors.Errorf("tipo bson não suportado para valor monetário: %s", raw.Type)
}

func decimalToBSON(value decimal.Decimal) (primitive.Decimal128, error) {
	d128, err := primitive.ParseDecimal128(value.String())
	if err != nil {
		return primitive.Decimal128{}, errors.Wrapf(err, "valor %s", value.String())
	}
	return d128, nil
}
