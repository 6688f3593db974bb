package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id, err := GenerateID()
		require.NoError(t, err)
		assert.Len(t, id, idLength)
		assert.Regexp(t, "^[A-Za-z0-9]+$", id)

		_, dup := seen[id]
		assert.False(t, dup, "id repetido: %s", id)
		seen[id] = struct{}{}
	}
}

func TestMoneyToFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"150.00", 150},
		{"0.1", 0.1},
		{"19.999", 20},
		{"1234.564", 1234.56},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MoneyToFloat(decimal.RequireFromString(tt.in)))
		})
	}
}
