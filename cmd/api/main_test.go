package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/internal/infrastructure/memory"
	"github.com/jhoicas/stock-sync/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-sync/pkg/config"
)

func TestOpenRunner_Memoria(t *testing.T) {
	runner, closeRunner, err := openRunner(context.Background(), config.DBConfig{Driver: "memory"}, repository.NopTxObserver{})
	require.NoError(t, err)
	defer closeRunner()
	assert.IsType(t, &memory.Store{}, runner)
}

func TestOpenRunner_SQLiteSeCierra(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.db")
	runner, closeRunner, err := openRunner(context.Background(), config.DBConfig{Driver: "sqlite", SQLitePath: path}, repository.NopTxObserver{})
	require.NoError(t, err)
	require.IsType(t, &sqlite.Store{}, runner)

	require.NoError(t, runner.Run(context.Background(), func(items repository.ItemsRepository) error {
		_, err := items.Load(context.Background())
		return err
	}))

	closeRunner()
	err = runner.Run(context.Background(), func(repository.ItemsRepository) error { return nil })
	assert.Error(t, err, "tras el cierre la base ya no acepta transacciones")
}

func TestOpenRunner_PostgresInalcanzableDevuelveError(t *testing.T) {
	cfg := config.DBConfig{
		Driver:      "postgres",
		DatabaseURL: "postgres://u:p@127.0.0.1:1/stock?sslmode=disable&connect_timeout=1",
	}
	runner, closeRunner, err := openRunner(context.Background(), cfg, repository.NopTxObserver{})
	assert.Error(t, err)
	assert.Nil(t, runner)
	assert.Nil(t, closeRunner)
}

func TestOpenRunner_DriverDesconocido(t *testing.T) {
	_, _, err := openRunner(context.Background(), config.DBConfig{Driver: "mysql"}, repository.NopTxObserver{})
	assert.Error(t, err)
}
