package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de la fuente durable, pasando el
// repositorio atado a esa tx. Commit si fn devuelve nil; Rollback si devuelve error o entra
// en pánico (el pánico se propaga).
type TxRunner interface {
	Run(ctx context.Context, fn func(items repository.ItemsRepository) error) error
}

// Items vista transaccional del almacén lógico: carga fusionada y guardado durable.
type Items interface {
	Load(ctx context.Context) (entity.StockList, error)
	Save(ctx context.Context, stockList entity.StockList) error
}

// PricedLoader produce la lista con precios para un instante dado.
type PricedLoader interface {
	Load(ctx context.Context, now time.Time) (entity.PricedStockList, error)
}

// ReportRenderer genera la representación imprimible (PDF) de una lista con precios.
type ReportRenderer interface {
	RenderStockReport(ctx context.Context, stockList entity.PricedStockList, zone *time.Location) ([]byte, error)
}
