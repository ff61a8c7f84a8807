// Package memory implementa la fuente durable en memoria: cada transacción trabaja sobre una
// copia del estado y solo se publica en Commit. Las transacciones se serializan con un mutex.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var _ stock.TxRunner = (*Store)(nil)

// Store fuente durable en memoria.
type Store struct {
	mu       sync.Mutex
	state    state
	observer repository.TxObserver
}

type state struct {
	lastModified time.Time
	items        []entity.Item
	seeded       map[entity.ID[entity.Item]]struct{} // IDs ya vistos en la semilla
}

func (s state) clone() state {
	items := make([]entity.Item, len(s.items))
	copy(items, s.items)
	seeded := make(map[entity.ID[entity.Item]]struct{}, len(s.seeded))
	for id := range s.seeded {
		seeded[id] = struct{}{}
	}
	return state{lastModified: s.lastModified, items: items, seeded: seeded}
}

// Option configura el Store.
type Option func(*Store)

// WithObserver registra un observador de límites de transacción.
func WithObserver(o repository.TxObserver) Option {
	return func(s *Store) { s.observer = o }
}

// WithStockList inicia el Store con una lista ya guardada.
func WithStockList(stockList entity.StockList) Option {
	return func(s *Store) {
		s.state = state{lastModified: stockList.LastModified, items: stockList.Items}.clone()
	}
}

// NewStore construye un Store vacío (nunca estampado).
func NewStore(opts ...Option) *Store {
	s := &Store{observer: repository.NopTxObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(items repository.ItemsRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &itemsTx{state: s.state.clone()}
	s.observer.TxBegin(ctx)
	defer func() {
		if r := recover(); r != nil {
			s.observer.TxRollback(ctx, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		s.observer.TxRollback(ctx, err)
		return err
	}
	s.state = tx.state
	s.observer.TxCommit(ctx)
	return nil
}

// Snapshot estado confirmado actual (fuera de cualquier transacción).
func (s *Store) Snapshot() entity.StockList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.NewStockList(s.state.lastModified, s.state.items)
}

type itemsTx struct {
	state state
}

func (t *itemsTx) Load(ctx context.Context) (entity.StockList, error) {
	if err := ctx.Err(); err != nil {
		return entity.StockList{}, err
	}
	return entity.NewStockList(t.state.lastModified, t.state.items), nil
}

func (t *itemsTx) Save(ctx context.Context, stockList entity.StockList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seeded := t.state.seeded
	t.state = state{lastModified: stockList.LastModified, items: stockList.Items}.clone()
	t.state.seeded = seeded
	return nil
}

func (t *itemsTx) InsertIfAbsent(ctx context.Context, lastModified time.Time, items []entity.Item) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	present := make(map[entity.ID[entity.Item]]struct{}, len(t.state.items))
	for _, it := range t.state.items {
		present[it.ID] = struct{}{}
	}
	inserted := 0
	for _, it := range items {
		if _, ok := t.state.seeded[it.ID]; ok {
			continue
		}
		t.state.seeded[it.ID] = struct{}{}
		if _, ok := present[it.ID]; ok {
			continue
		}
		present[it.ID] = struct{}{}
		t.state.items = append(t.state.items, it)
		inserted++
	}
	if t.state.lastModified.IsZero() && !lastModified.IsZero() {
		t.state.lastModified = lastModified.UTC()
	}
	return inserted, nil
}
