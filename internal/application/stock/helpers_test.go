package stock_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures compartidas
// ──────────────────────────────────────────────────────────────────────────────

var (
	lastModified          = time.Date(2022, 2, 9, 12, 0, 0, 0, time.UTC)
	sameDayAsLastModified = time.Date(2022, 2, 9, 23, 59, 59, 0, time.UTC)
	nextDay               = time.Date(2022, 2, 10, 0, 0, 1, 0, time.UTC)
)

func id(s string) entity.ID[entity.Item] { return entity.MustID[entity.Item](s) }

func item(name string, sellBy *time.Time, quality int) entity.Item {
	return entity.NewItem(id(name), name, sellBy, quality)
}

// fixtureStockList banana / kumquat / undated con LastModified = lastModified.
func fixtureStockList() entity.StockList {
	return entity.NewStockList(lastModified, []entity.Item{
		item("banana", entity.Date(2022, 2, 8), 42),
		item("kumquat", entity.Date(2022, 2, 10), 101),
		item("undated", nil, 50),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

// seedStub fuente semilla con resultado fijo que cuenta sus lecturas.
type seedStub struct {
	mu    sync.Mutex
	list  entity.StockList
	err   error
	calls int
}

func (s *seedStub) Load(context.Context) (entity.StockList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.list, s.err
}

var errSave = errors.New("deliberate save failure")

// failingSaveRunner envuelve un memory.Store para que todo Save falle dentro de la tx.
type failingSaveRunner struct {
	inner *memory.Store
}

func (r failingSaveRunner) Run(ctx context.Context, fn func(items repository.ItemsRepository) error) error {
	return r.inner.Run(ctx, func(items repository.ItemsRepository) error {
		return fn(failingSaveRepo{ItemsRepository: items})
	})
}

type failingSaveRepo struct {
	repository.ItemsRepository
}

func (failingSaveRepo) Save(context.Context, entity.StockList) error { return errSave }

// recordingObserver guarda la secuencia begin / commit / rollback.
type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) TxBegin(context.Context)           { o.add("begin") }
func (o *recordingObserver) TxCommit(context.Context)          { o.add("commit") }
func (o *recordingObserver) TxRollback(context.Context, error) { o.add("rollback") }

func (o *recordingObserver) add(e string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) Events() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...)
}
