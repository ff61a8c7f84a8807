package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-sync/internal/application/analytics"
	"github.com/jhoicas/stock-sync/internal/application/pricing"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// UseCaseDeps dependencias del caso de uso de stock.
type UseCaseDeps struct {
	Items          *DualItems
	Stock          *Stock
	Pricing        pricing.Func
	PricingOptions pricing.Options
	Analytics      analytics.Analytics
	Report         ReportRenderer // opcional
	Clock          func() time.Time
	Log            zerolog.Logger
}

// UseCase operaciones expuestas a la capa de presentación: lectura con precios, borrado y
// alta de items, y el reporte PDF. Las escrituras son una única unidad atómica
// (cargar y avanzar, mutar, guardar).
type UseCase struct {
	items  *DualItems
	stock  *Stock
	priced PricedLoader
	report ReportRenderer
	clock  func() time.Time
	log    zerolog.Logger
}

// NewUseCase construye el caso de uso y su cargador con precios.
func NewUseCase(deps UseCaseDeps) *UseCase {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	uc := &UseCase{
		items:  deps.Items,
		stock:  deps.Stock,
		report: deps.Report,
		clock:  clock,
		log:    deps.Log.With().Str("component", "stock_usecase").Logger(),
	}
	uc.priced = pricing.NewPricedStockListLoader(uc.loadAndUpdateStockList, deps.Pricing, deps.Analytics, deps.PricingOptions)
	return uc
}

// Now instante actual según el reloj configurado.
func (uc *UseCase) Now() time.Time { return uc.clock() }

// Zone zona horaria que define el día de stock.
func (uc *UseCase) Zone() *time.Location { return uc.stock.Zone() }

// LoadStockList avanza el stock en su propia transacción y luego, fuera de ella, le pone
// precio a cada item. Un fallo de carga devuelve *domain.StockListLoadingError.
func (uc *UseCase) LoadStockList(ctx context.Context, now time.Time) (entity.PricedStockList, error) {
	return uc.priced.Load(ctx, now)
}

func (uc *UseCase) loadAndUpdateStockList(ctx context.Context, now time.Time) (entity.StockList, error) {
	var result entity.StockList
	err := uc.items.InTransaction(ctx, func(tx *ItemsTx) error {
		stockList, err := uc.stock.LoadAndUpdateStockList(ctx, tx, now)
		if err != nil {
			return err
		}
		result = stockList
		return nil
	})
	if err != nil {
		return entity.StockList{}, err
	}
	return result, nil
}

// DeleteItemsWithIDs en una sola transacción: carga y avanza el stock a now, quita los items
// con los IDs dados y guarda la lista con LastModified = now. Cualquier fallo revierte todo.
func (uc *UseCase) DeleteItemsWithIDs(ctx context.Context, ids []entity.ID[entity.Item], now time.Time) error {
	if len(ids) == 0 {
		return domain.ErrInvalidInput
	}
	toDelete := make(map[entity.ID[entity.Item]]struct{}, len(ids))
	for _, id := range ids {
		toDelete[id] = struct{}{}
	}

	return uc.items.InTransaction(ctx, func(tx *ItemsTx) error {
		stockList, err := uc.stock.LoadAndUpdateStockList(ctx, tx, now)
		if err != nil {
			return err
		}
		revised := stockList.Without(toDelete, now)
		if err := tx.Save(ctx, revised); err != nil {
			return err
		}
		uc.log.Info().
			Int("requested", len(toDelete)).
			Int("deleted", stockList.Len()-revised.Len()).
			Msg("items eliminados")
		return nil
	})
}

// NewItemInput datos para dar de alta un item directamente (sin pasar por la semilla).
type NewItemInput struct {
	ID         string // opcional; vacío = UUID nuevo
	Name       string
	SellByDate *time.Time
	Quality    int
}

// AddItem en una sola transacción: carga y avanza el stock, agrega el item al final y guarda
// con LastModified = now. Un ID ya presente devuelve domain.ErrDuplicate.
func (uc *UseCase) AddItem(ctx context.Context, in NewItemInput, now time.Time) (entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.Item{}, domain.ErrInvalidInput
	}
	rawID := strings.TrimSpace(in.ID)
	if rawID == "" {
		rawID = uuid.NewString()
	}
	id, err := entity.NewID[entity.Item](rawID)
	if err != nil {
		return entity.Item{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	item := entity.NewItem(id, name, in.SellByDate, in.Quality)

	err = uc.items.InTransaction(ctx, func(tx *ItemsTx) error {
		stockList, err := uc.stock.LoadAndUpdateStockList(ctx, tx, now)
		if err != nil {
			return err
		}
		if stockList.Contains(item.ID) {
			return domain.ErrDuplicate
		}
		return tx.Save(ctx, stockList.With(item, now))
	})
	if err != nil {
		return entity.Item{}, err
	}
	uc.log.Info().Str("item_id", item.ID.String()).Msg("item agregado")
	return item, nil
}

// ExportStockReport genera el PDF de la lista con precios a now.
func (uc *UseCase) ExportStockReport(ctx context.Context, now time.Time) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("reporte PDF no configurado")
	}
	stockList, err := uc.LoadStockList(ctx, now)
	if err != nil {
		return nil, err
	}
	return uc.report.RenderStockReport(ctx, stockList, uc.stock.Zone())
}
