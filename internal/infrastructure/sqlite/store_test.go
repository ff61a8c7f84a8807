package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-sync/internal/infrastructure/storetest"
)

// openTemp abre una base nueva en un directorio temporal del test.
func openTemp(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "data", "stock.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Contrato(t *testing.T) {
	storetest.Run(t, func(t *testing.T) stock.TxRunner { return openTemp(t) })
}

func TestOpen_ReabrirConservaDatos(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.db")

	first, err := sqlite.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// El esquema es idempotente.
	second, err := sqlite.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
