package reporting

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPeriod é retornado para tags fora de day, week e month
	ErrInvalidPeriod = errors.New("período inválido")
	// ErrStoreUnavailable envolve qualquer falha do ledger ou do catálogo
	ErrStoreUnavailable = errors.New("armazenamento de vendas indisponível")
)

func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
