package stock

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-sync/internal/application/analytics"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

// DualItems presenta un único almacén lógico respaldado por la fuente semilla (solo lectura)
// y la fuente durable (transaccional, autoritativa).
//
// Cada carga lee ambas fuentes y reconcilia: los items semilla se insertan en la durable la
// primera vez que se ve su ID. Los items ya presentes nunca se sobrescriben y un item eliminado
// no vuelve aunque siga en la semilla.
type DualItems struct {
	seed      repository.SeedSource
	runner    TxRunner
	analytics analytics.Analytics
	log       zerolog.Logger
}

// NewDualItems construye el almacén. seed puede ser nil (sin fuente semilla).
func NewDualItems(seed repository.SeedSource, runner TxRunner, a analytics.Analytics, log zerolog.Logger) *DualItems {
	return &DualItems{
		seed:      seed,
		runner:    runner,
		analytics: analytics.Safe(a),
		log:       log.With().Str("component", "dual_items").Logger(),
	}
}

// InTransaction ejecuta fn contra la fuente durable en una sola transacción atómica.
func (d *DualItems) InTransaction(ctx context.Context, fn func(tx *ItemsTx) error) error {
	return d.runner.Run(ctx, func(durable repository.ItemsRepository) error {
		return fn(&ItemsTx{dual: d, durable: durable})
	})
}

// ItemsTx almacén lógico atado a una transacción abierta por InTransaction.
type ItemsTx struct {
	dual    *DualItems
	durable repository.ItemsRepository
}

var _ Items = (*ItemsTx)(nil)

// Load lee ambas fuentes, completa la durable con los items semilla nunca vistos y devuelve
// la vista resultante de la durable.
func (tx *ItemsTx) Load(ctx context.Context) (entity.StockList, error) {
	var seedList entity.StockList
	if tx.dual.seed != nil {
		loaded, err := tx.dual.seed.Load(ctx)
		if err != nil {
			if le, ok := domain.AsLoadingError(err); ok {
				return entity.StockList{}, le
			}
			return entity.StockList{}, domain.IOError("leer fuente semilla", err)
		}
		seedList = loaded
	}

	durable, err := tx.durable.Load(ctx)
	if err != nil {
		return entity.StockList{}, domain.IOError("leer fuente durable", err)
	}

	needsStamp := durable.LastModified.IsZero() && !seedList.LastModified.IsZero()
	if len(seedList.Items) == 0 && !needsStamp {
		return durable, nil
	}

	inserted, err := tx.durable.InsertIfAbsent(ctx, seedList.LastModified, seedList.Items)
	if err != nil {
		return entity.StockList{}, domain.IOError("completar fuente durable", err)
	}
	if inserted == 0 && !needsStamp {
		return durable, nil
	}
	if inserted > 0 {
		tx.dual.log.Info().Int("backfilled", inserted).Msg("items semilla insertados en la fuente durable")
		tx.dual.analytics.Emit(analytics.ItemsBackfilledEvent{Count: inserted})
	}

	merged, err := tx.durable.Load(ctx)
	if err != nil {
		return entity.StockList{}, domain.IOError("releer fuente durable", err)
	}
	return merged, nil
}

// Save escribe solo en la fuente durable; la semilla nunca se escribe.
func (tx *ItemsTx) Save(ctx context.Context, stockList entity.StockList) error {
	return tx.durable.Save(ctx, stockList)
}
