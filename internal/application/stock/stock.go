package stock

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-sync/internal/domain/decay"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// Stock produce "el stock a fecha de hoy": aplica la función de envejecimiento como mucho una
// vez por día calendario (en la zona de referencia) y persiste el resultado.
type Stock struct {
	zone    *time.Location
	advance decay.Func
	log     zerolog.Logger
}

// NewStock construye el avanzador. advance nil equivale a decay.Restamp.
func NewStock(zone *time.Location, advance decay.Func, log zerolog.Logger) *Stock {
	if zone == nil {
		zone = time.UTC
	}
	if advance == nil {
		advance = decay.Restamp
	}
	return &Stock{zone: zone, advance: advance, log: log.With().Str("component", "stock").Logger()}
}

// Zone zona de referencia para decidir el día calendario.
func (s *Stock) Zone() *time.Location { return s.zone }

// LoadAndUpdateStockList carga el stock y, si now cae en otro día que LastModified, lo avanza
// y lo guarda dentro de la transacción del llamador. Un fallo de carga corta antes de avanzar.
func (s *Stock) LoadAndUpdateStockList(ctx context.Context, items Items, now time.Time) (entity.StockList, error) {
	loaded, err := items.Load(ctx)
	if err != nil {
		return entity.StockList{}, err
	}
	if s.sameDay(loaded.LastModified, now) {
		return loaded, nil
	}

	advanced := s.advance(loaded, now).Restamped(now)
	if err := items.Save(ctx, advanced); err != nil {
		return entity.StockList{}, err
	}
	s.log.Debug().
		Time("from", loaded.LastModified).
		Time("to", advanced.LastModified).
		Int("items", advanced.Len()).
		Msg("stock avanzado")
	return advanced, nil
}

func (s *Stock) sameDay(lastModified, now time.Time) bool {
	if lastModified.IsZero() {
		return false
	}
	y1, m1, d1 := lastModified.In(s.zone).Date()
	y2, m2, d2 := now.In(s.zone).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
