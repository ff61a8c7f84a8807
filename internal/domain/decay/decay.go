// Package decay define la frontera con el componente externo de envejecimiento del stock.
// Las reglas por categoría de artículo no viven aquí; este paquete solo fija la firma
// y ofrece combinadores puros.
package decay

import (
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// Func avanza la lista de stock hasta now. Debe ser pura y total (sin E/S).
type Func func(stockList entity.StockList, now time.Time) entity.StockList

// Restamp no cambia los items; solo estampa now. Es el valor por defecto cuando no se
// conecta un componente de envejecimiento.
func Restamp(stockList entity.StockList, now time.Time) entity.StockList {
	return stockList.Restamped(now)
}

// Chain aplica las funciones en orden y estampa now al final.
func Chain(fns ...Func) Func {
	return func(stockList entity.StockList, now time.Time) entity.StockList {
		out := stockList
		for _, fn := range fns {
			out = fn(out, now)
		}
		return out.Restamped(now)
	}
}
