package selling

import "errors"

var (
	ErrInvalidSale = errors.New("venda inválida")
)
