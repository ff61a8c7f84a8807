package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// ItemsRepository define el puerto de la fuente durable (transaccional y autoritativa) del stock.
// Las implementaciones se atan a una transacción; ver TxRunner en la capa de aplicación.
type ItemsRepository interface {
	// Load devuelve la lista almacenada en orden de inserción.
	// LastModified es cero si la fuente nunca fue estampada.
	Load(ctx context.Context) (entity.StockList, error)
	// Save reemplaza los items y la marca de versión por los de la lista dada.
	Save(ctx context.Context, stockList entity.StockList) error
	// InsertIfAbsent completa la fuente con items de la semilla. Cada ID se considera una sola
	// vez en la vida de la fuente: la primera vez que aparece queda registrado y, si no existe,
	// se agrega al final. Un ID ya registrado se ignora aunque haya sido eliminado después.
	// Estampa lastModified solo si la fuente nunca fue estampada y lastModified no es cero.
	// Devuelve cuántos insertó.
	InsertIfAbsent(ctx context.Context, lastModified time.Time, items []entity.Item) (int, error)
}

// SeedSource define el puerto de la fuente semilla (solo lectura, p. ej. un archivo TSV).
type SeedSource interface {
	Load(ctx context.Context) (entity.StockList, error)
}

// TxObserver recibe los límites de cada transacción (auditoría y tests).
type TxObserver interface {
	TxBegin(ctx context.Context)
	TxCommit(ctx context.Context)
	TxRollback(ctx context.Context, cause error)
}

// NopTxObserver ignora los eventos de transacción.
type NopTxObserver struct{}

func (NopTxObserver) TxBegin(context.Context)           {}
func (NopTxObserver) TxCommit(context.Context)          {}
func (NopTxObserver) TxRollback(context.Context, error) {}
