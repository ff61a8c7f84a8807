// Package storetest contiene la batería de pruebas común a todas las fuentes durables.
// Cada implementación la ejecuta desde su propio _test.go.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var (
	lastModified = time.Date(2022, 2, 9, 12, 0, 0, 0, time.UTC)
	later        = time.Date(2022, 2, 10, 9, 30, 0, 123000000, time.UTC)
)

func item(name string, sellBy *time.Time, quality int) entity.Item {
	return entity.NewItem(entity.MustID[entity.Item](name), name, sellBy, quality)
}

func fixtureItems() []entity.Item {
	return []entity.Item{
		item("banana", entity.Date(2022, 2, 8), 42),
		item("kumquat", entity.Date(2022, 2, 10), 101),
		item("undated", nil, 50),
	}
}

// load lee el estado confirmado en una transacción propia.
func load(t *testing.T, runner stock.TxRunner) entity.StockList {
	t.Helper()
	var out entity.StockList
	require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
		l, err := items.Load(context.Background())
		out = l
		return err
	}))
	return out
}

// Run ejecuta la batería completa; open debe devolver una fuente vacía y aislada.
func Run(t *testing.T, open func(t *testing.T) stock.TxRunner) {
	t.Run("VaciaNuncaEstampada", func(t *testing.T) {
		got := load(t, open(t))
		assert.True(t, got.LastModified.IsZero())
		assert.Empty(t, got.Items)
	})

	t.Run("InsertIfAbsentEstampaYAgrega", func(t *testing.T) {
		runner := open(t)
		var inserted int
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			n, err := items.InsertIfAbsent(context.Background(), lastModified, fixtureItems())
			inserted = n
			return err
		}))
		assert.Equal(t, 3, inserted)
		assert.Equal(t, entity.NewStockList(lastModified, fixtureItems()), load(t, runner))
	})

	t.Run("InsertIfAbsentNoSobrescribe", func(t *testing.T) {
		runner := open(t)
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			_, err := items.InsertIfAbsent(context.Background(), lastModified, fixtureItems()[:1])
			return err
		}))

		var inserted int
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			n, err := items.InsertIfAbsent(context.Background(), later, []entity.Item{
				item("banana", nil, 1),
				item("apple", nil, 7),
				item("apple", nil, 8),
			})
			inserted = n
			return err
		}))

		assert.Equal(t, 1, inserted)
		got := load(t, runner)
		assert.Equal(t, lastModified, got.LastModified, "la marca existente se conserva")
		assert.Equal(t, []entity.Item{fixtureItems()[0], item("apple", nil, 7)}, got.Items)
	})

	t.Run("InsertIfAbsentUnaVezPorID", func(t *testing.T) {
		runner := open(t)
		insert := func() int {
			var n int
			require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
				var err error
				n, err = items.InsertIfAbsent(context.Background(), lastModified, fixtureItems())
				return err
			}))
			return n
		}
		require.Equal(t, 3, insert())

		kept := entity.NewStockList(later, fixtureItems()[1:2])
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			return items.Save(context.Background(), kept)
		}))

		assert.Equal(t, 0, insert(), "los IDs eliminados no se vuelven a insertar")
		assert.Equal(t, kept, load(t, runner))
	})

	t.Run("InsertIfAbsentRegistraIDsPresentes", func(t *testing.T) {
		runner := open(t)
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			return items.Save(context.Background(), entity.NewStockList(lastModified, fixtureItems()[:1]))
		}))

		var first, second int
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			var err error
			first, err = items.InsertIfAbsent(context.Background(), time.Time{}, fixtureItems()[:1])
			if err != nil {
				return err
			}
			if err := items.Save(context.Background(), entity.NewStockList(later, nil)); err != nil {
				return err
			}
			second, err = items.InsertIfAbsent(context.Background(), time.Time{}, fixtureItems()[:1])
			return err
		}))

		assert.Equal(t, 0, first)
		assert.Equal(t, 0, second)
		assert.Empty(t, load(t, runner).Items)
	})

	t.Run("InsertIfAbsentRevertidoNoRegistra", func(t *testing.T) {
		runner := open(t)
		boom := errors.New("deliberate")
		err := runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			if _, err := items.InsertIfAbsent(context.Background(), lastModified, fixtureItems()); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		var inserted int
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			var err error
			inserted, err = items.InsertIfAbsent(context.Background(), lastModified, fixtureItems())
			return err
		}))
		assert.Equal(t, 3, inserted)
	})

	t.Run("SaveReemplazaItemsOrdenYMarca", func(t *testing.T) {
		runner := open(t)
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			_, err := items.InsertIfAbsent(context.Background(), lastModified, fixtureItems())
			return err
		}))

		revised := entity.NewStockList(later, []entity.Item{
			item("undated", nil, 49),
			item("kumquat", entity.Date(2022, 2, 10), 100),
		})
		require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			return items.Save(context.Background(), revised)
		}))
		assert.Equal(t, revised, load(t, runner))
	})

	t.Run("ErrorRevierte", func(t *testing.T) {
		runner := open(t)
		boom := errors.New("deliberate")
		err := runner.Run(context.Background(), func(items repository.ItemsRepository) error {
			if err := items.Save(context.Background(), entity.NewStockList(later, fixtureItems())); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got := load(t, runner)
		assert.True(t, got.LastModified.IsZero())
		assert.Empty(t, got.Items)
	})

	t.Run("PanicoRevierteYSePropaga", func(t *testing.T) {
		runner := open(t)
		assert.Panics(t, func() {
			_ = runner.Run(context.Background(), func(items repository.ItemsRepository) error {
				_ = items.Save(context.Background(), entity.NewStockList(later, fixtureItems()))
				panic("deliberate")
			})
		})
		assert.Empty(t, load(t, runner).Items)
	})
}
