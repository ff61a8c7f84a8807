package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED como mínimo;
// ItemsRepo.Load bloquea la fila de la marca de versión para serializar escritores).
type TxRunner struct {
	pool     *pgxpool.Pool
	observer repository.TxObserver
}

// NewTxRunner construye el runner con el pool. observer puede ser nil.
func NewTxRunner(pool *pgxpool.Pool, observer repository.TxObserver) *TxRunner {
	if observer == nil {
		observer = repository.NopTxObserver{}
	}
	return &TxRunner{pool: pool, observer: observer}
}

// Run inicia una transacción, ejecuta fn con el repositorio atado a la tx y hace Commit o Rollback.
// Un pánico dentro de fn revierte la transacción y se vuelve a lanzar.
func (r *TxRunner) Run(ctx context.Context, fn func(items repository.ItemsRepository) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.observer.TxBegin(ctx)

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback(ctx)
		if p := recover(); p != nil {
			r.observer.TxRollback(ctx, fmt.Errorf("panic: %v", p))
			panic(p)
		}
		r.observer.TxRollback(ctx, err)
	}()

	if err := fn(NewItemsRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	r.observer.TxCommit(ctx)
	return nil
}
