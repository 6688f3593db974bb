package utils

import "github.com/shopspring/decimal"

// MoneyToFloat arredonda o valor para duas casas antes de expor no JSON
func MoneyToFloat(d decimal.Decimal) float64 {
	if d.IsZero() {
		return 0
	}

	return d.Round(2).InexactFloat64()
}
