// Package pricing enriquece una lista de stock con el precio de cada item consultando una
// función de precios externa y poco confiable.
//
// Política por item: un intento más un reintento; cada intento fallido emite un
// UncaughtExceptionEvent y, si ambos fallan, el error del segundo queda como dato en el
// PricedItem. Los fallos de precio nunca hacen fallar el lote; solo falla el lote si la carga
// del stock falla.
package pricing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-sync/internal/application/analytics"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/pkg/retry"
)

// Func función de precios externa. Un precio nil con error nil es un éxito: "sin precio ahora".
type Func func(ctx context.Context, item entity.Item) (*entity.Price, error)

// Loading carga (y avanza) la lista de stock para un instante.
type Loading func(ctx context.Context, now time.Time) (entity.StockList, error)

// Options parámetros de la política de precios.
type Options struct {
	MaxAttempts int           // intentos totales por item (2 = un reintento)
	Timeout     time.Duration // tiempo máximo por intento; 0 = sin límite
	Concurrency int           // consultas simultáneas; <1 = 1
}

// DefaultOptions un reintento, 5 s por intento, 8 consultas simultáneas.
func DefaultOptions() Options {
	return Options{MaxAttempts: 2, Timeout: 5 * time.Second, Concurrency: 8}
}

// PricedStockListLoader carga el stock y le pone precio item por item.
type PricedStockListLoader struct {
	loading   Loading
	pricing   Func
	analytics analytics.Analytics
	opts      Options
}

// NewPricedStockListLoader construye el cargador.
func NewPricedStockListLoader(loading Loading, pricing Func, a analytics.Analytics, opts Options) *PricedStockListLoader {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &PricedStockListLoader{
		loading:   loading,
		pricing:   pricing,
		analytics: analytics.Safe(a),
		opts:      opts,
	}
}

// Load devuelve la lista con precios. El orden de salida es el de entrada aunque las
// consultas terminen en otro orden.
func (l *PricedStockListLoader) Load(ctx context.Context, now time.Time) (entity.PricedStockList, error) {
	stockList, err := l.loading(ctx, now)
	if err != nil {
		return entity.PricedStockList{}, err
	}

	priced := make([]entity.PricedItem, len(stockList.Items))
	var g errgroup.Group
	g.SetLimit(l.opts.Concurrency)
	for i, item := range stockList.Items {
		g.Go(func() error {
			priced[i] = item.WithPrice(l.priceItem(ctx, item))
			return nil
		})
	}
	_ = g.Wait()

	return entity.PricedStockList{LastModified: stockList.LastModified, Items: priced}, nil
}

func (l *PricedStockListLoader) priceItem(ctx context.Context, item entity.Item) entity.PriceResult {
	price, err := retry.Do(ctx, retry.Policy{
		MaxAttempts: l.opts.MaxAttempts,
		OnFailure: func(_ int, err error) {
			l.analytics.Emit(analytics.UncaughtExceptionEvent{Err: err})
		},
	}, func(ctx context.Context, _ int) (*entity.Price, error) {
		return l.attempt(ctx, item)
	})
	return entity.PriceResultOf(price, err)
}

type outcome struct {
	price *entity.Price
	err   error
}

// attempt llama a la función de precios con límite de tiempo. Un pánico cuenta como fallo.
func (l *PricedStockListLoader) attempt(ctx context.Context, item entity.Item) (*entity.Price, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("pricing %s: panic: %v", item.ID, r)}
			}
		}()
		p, err := l.pricing(ctx, item)
		done <- outcome{price: p, err: err}
	}()

	select {
	case o := <-done:
		return o.price, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("pricing %s: %w", item.ID, ctx.Err())
	}
}
