package stock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/application/analytics"
	"github.com/jhoicas/stock-sync/internal/application/pricing"
	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fixturePricing banana 666, kumquat sin precio, undated 999.
func fixturePricing(_ context.Context, it entity.Item) (*entity.Price, error) {
	var pence int64
	switch it.ID.String() {
	case "banana":
		pence = 666
	case "undated":
		pence = 999
	default:
		return nil, nil
	}
	p, err := entity.NewPrice(pence)
	return &p, err
}

type fakeReport struct {
	got entity.PricedStockList
}

func (f *fakeReport) RenderStockReport(_ context.Context, l entity.PricedStockList, _ *time.Location) ([]byte, error) {
	f.got = l
	return []byte("%PDF-fake"), nil
}

func newUseCase(seed repository.SeedSource, runner stock.TxRunner, rec analytics.Analytics, report stock.ReportRenderer) *stock.UseCase {
	return stock.NewUseCase(stock.UseCaseDeps{
		Items:          stock.NewDualItems(seed, runner, rec, zerolog.Nop()),
		Stock:          stock.NewStock(time.UTC, nil, zerolog.Nop()),
		Pricing:        fixturePricing,
		PricingOptions: pricing.Options{MaxAttempts: 2, Timeout: time.Second, Concurrency: 2},
		Analytics:      rec,
		Report:         report,
		Clock:          func() time.Time { return sameDayAsLastModified },
		Log:            zerolog.Nop(),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteItemsWithIDs
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteItems_EliminaYEstampa(t *testing.T) {
	store := memory.NewStore(memory.WithStockList(fixtureStockList()))
	uc := newUseCase(nil, store, nil, nil)

	err := uc.DeleteItemsWithIDs(context.Background(),
		[]entity.ID[entity.Item]{id("banana"), id("undated")}, sameDayAsLastModified)
	require.NoError(t, err)

	want := entity.NewStockList(sameDayAsLastModified, []entity.Item{fixtureStockList().Items[1]})
	assert.Equal(t, want, store.Snapshot())
}

func TestDeleteItems_ConSemillaNoReaparecenAlRecargar(t *testing.T) {
	seed := &seedStub{list: fixtureStockList()}
	store := memory.NewStore()
	rec := &analytics.Recorder{}
	uc := newUseCase(seed, store, rec, nil)
	ctx := context.Background()

	first, err := uc.LoadStockList(ctx, sameDayAsLastModified)
	require.NoError(t, err)
	require.Len(t, first.Items, 3)

	require.NoError(t, uc.DeleteItemsWithIDs(ctx,
		[]entity.ID[entity.Item]{id("banana"), id("undated")}, sameDayAsLastModified))

	reloaded, err := uc.LoadStockList(ctx, sameDayAsLastModified)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, fixtureStockList().Items[1], reloaded.Items[0].Item)
	assert.Equal(t, sameDayAsLastModified, reloaded.LastModified)

	want := entity.NewStockList(sameDayAsLastModified, []entity.Item{fixtureStockList().Items[1]})
	assert.Equal(t, want, store.Snapshot())
	assert.Equal(t, []analytics.Event{analytics.ItemsBackfilledEvent{Count: 3}}, rec.Events(), "el backfill ocurre una sola vez")
}

func TestDeleteItems_IDsInexistentesSeIgnoran(t *testing.T) {
	store := memory.NewStore(memory.WithStockList(fixtureStockList()))
	uc := newUseCase(nil, store, nil, nil)

	err := uc.DeleteItemsWithIDs(context.Background(), []entity.ID[entity.Item]{id("no-such")}, sameDayAsLastModified)
	require.NoError(t, err)

	snapshot := store.Snapshot()
	assert.Equal(t, fixtureStockList().Items, snapshot.Items)
	assert.Equal(t, sameDayAsLastModified, snapshot.LastModified)
}

func TestDeleteItems_SinIDsEsEntradaInvalida(t *testing.T) {
	uc := newUseCase(nil, memory.NewStore(), nil, nil)
	err := uc.DeleteItemsWithIDs(context.Background(), nil, sameDayAsLastModified)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteItems_FalloAlGuardarNoCambiaNada(t *testing.T) {
	store := memory.NewStore(memory.WithStockList(fixtureStockList()))
	uc := newUseCase(nil, failingSaveRunner{inner: store}, nil, nil)

	err := uc.DeleteItemsWithIDs(context.Background(), []entity.ID[entity.Item]{id("banana")}, sameDayAsLastModified)
	assert.ErrorIs(t, err, errSave)
	assert.Equal(t, fixtureStockList(), store.Snapshot())
}

func TestDeleteItems_OtroDiaYFalloRevierteElAvance(t *testing.T) {
	store := memory.NewStore(memory.WithStockList(fixtureStockList()))
	uc := newUseCase(nil, failingSaveRunner{inner: store}, nil, nil)

	// El avance diario guarda dentro de la misma tx: también se revierte.
	err := uc.DeleteItemsWithIDs(context.Background(), []entity.ID[entity.Item]{id("banana")}, nextDay)
	assert.ErrorIs(t, err, errSave)
	assert.Equal(t, fixtureStockList(), store.Snapshot())
}

func TestDeleteItems_ObservaLimitesDeTransaccion(t *testing.T) {
	obs := &recordingObserver{}
	store := memory.NewStore(memory.WithStockList(fixtureStockList()), memory.WithObserver(obs))
	uc := newUseCase(nil, store, nil, nil)

	require.NoError(t, uc.DeleteItemsWithIDs(context.Background(), []entity.ID[entity.Item]{id("banana")}, sameDayAsLastModified))
	assert.Equal(t, []string{"begin", "commit"}, obs.Events())

	failing := newUseCase(nil, failingSaveRunner{inner: store}, nil, nil)
	require.Error(t, failing.DeleteItemsWithIDs(context.Background(), []entity.ID[entity.Item]{id("kumquat")}, sameDayAsLastModified))
	assert.Equal(t, []string{"begin", "commit", "begin", "rollback"}, obs.Events())
}

// ──────────────────────────────────────────────────────────────────────────────
// LoadStockList
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadStockList_CargaYPrecia(t *testing.T) {
	store := memory.NewStore()
	rec := &analytics.Recorder{}
	uc := newUseCase(&seedStub{list: fixtureStockList()}, store, rec, nil)

	got, err := uc.LoadStockList(context.Background(), uc.Now())
	require.NoError(t, err)

	require.Len(t, got.Items, 3)
	assert.Equal(t, lastModified, got.LastModified)
	p, _ := got.Items[0].Price.Get()
	require.NotNil(t, p)
	assert.Equal(t, int64(666), p.Pence())
	assert.Equal(t, entity.PriceStateUnpriced, got.Items[1].Price.State())
	p, _ = got.Items[2].Price.Get()
	require.NotNil(t, p)
	assert.Equal(t, int64(999), p.Pence())

	// Solo el evento de backfill; ningún fallo de precio.
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, "items_backfilled", rec.Events()[0].Name())
}

func TestLoadStockList_FalloDeCargaEsStockNoDisponible(t *testing.T) {
	rec := &analytics.Recorder{}
	uc := newUseCase(&seedStub{err: errors.New("sin red")}, memory.NewStore(), rec, nil)

	_, err := uc.LoadStockList(context.Background(), uc.Now())
	assert.ErrorIs(t, err, domain.ErrStockUnavailable)
	assert.Empty(t, rec.Events())
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItem
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_AgregaAlFinal(t *testing.T) {
	store := memory.NewStore(memory.WithStockList(fixtureStockList()))
	uc := newUseCase(nil, store, nil, nil)

	added, err := uc.AddItem(context.Background(), stock.NewItemInput{
		ID: "apple", Name: "Apple", SellByDate: entity.Date(2022, 3, 1), Quality: 7,
	}, sameDayAsLastModified)
	require.NoError(t, err)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Items, 4)
	assert.Equal(t, added, snapshot.Items[3])
	assert.Equal(t, sameDayAsLastModified, snapshot.LastModified)
}

func TestAddItem_GeneraIDSiFalta(t *testing.T) {
	uc := newUseCase(nil, memory.NewStore(), nil, nil)
	added, err := uc.AddItem(context.Background(), stock.NewItemInput{Name: "Apple"}, sameDayAsLastModified)
	require.NoError(t, err)
	assert.Len(t, added.ID.String(), 36)
}

func TestAddItem_DuplicadoYNombreVacio(t *testing.T) {
	store := memory.NewStore(memory.WithStockList(fixtureStockList()))
	uc := newUseCase(nil, store, nil, nil)

	_, err := uc.AddItem(context.Background(), stock.NewItemInput{ID: "banana", Name: "Banana"}, sameDayAsLastModified)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.AddItem(context.Background(), stock.NewItemInput{ID: "pear", Name: "  "}, sameDayAsLastModified)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, fixtureStockList(), store.Snapshot())
}

// ──────────────────────────────────────────────────────────────────────────────
// ExportStockReport
// ──────────────────────────────────────────────────────────────────────────────

func TestExportStockReport_UsaListaConPrecios(t *testing.T) {
	report := &fakeReport{}
	uc := newUseCase(nil, memory.NewStore(memory.WithStockList(fixtureStockList())), nil, report)

	pdf, err := uc.ExportStockReport(context.Background(), sameDayAsLastModified)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Len(t, report.got.Items, 3)
}

func TestExportStockReport_SinRendererFalla(t *testing.T) {
	uc := newUseCase(nil, memory.NewStore(), nil, nil)
	_, err := uc.ExportStockReport(context.Background(), sameDayAsLastModified)
	assert.Error(t, err)
}
