package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrNegativePrice    = errors.New("precio negativo")
	ErrStockUnavailable = errors.New("stock no disponible")
)
