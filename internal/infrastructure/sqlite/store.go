// Package sqlite implementa la fuente durable sobre SQLite embebido (driver puro Go).
// Pensado para desarrollo local y despliegues de un solo nodo: usa una única conexión, así
// que las transacciones quedan serializadas.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var _ stock.TxRunner = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS stock_list (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	last_modified TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS items (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	sell_by_date TEXT,
	quality      INTEGER NOT NULL,
	position     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS seeded_ids (
	id TEXT PRIMARY KEY
);`

// Store fuente durable SQLite.
type Store struct {
	db       *sql.DB
	observer repository.TxObserver
}

// Open abre (o crea) la base en path y aplica el esquema. observer puede ser nil.
func Open(path string, observer repository.TxObserver) (*Store, error) {
	if path == "" {
		path = "stock.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if observer == nil {
		observer = repository.NopTxObserver{}
	}
	return &Store{db: db, observer: observer}, nil
}

// Close cierra la base.
func (s *Store) Close() error { return s.db.Close() }

// Run inicia una transacción, ejecuta fn con el repositorio atado a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(items repository.ItemsRepository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.observer.TxBegin(ctx)

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
		if p := recover(); p != nil {
			s.observer.TxRollback(ctx, fmt.Errorf("panic: %v", p))
			panic(p)
		}
		s.observer.TxRollback(ctx, err)
	}()

	if err := fn(newItemsRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	s.observer.TxCommit(ctx)
	return nil
}
