package entity

import (
	"time"
)

// Item representa un artículo del stock del comerciante.
// Es un valor inmutable: cualquier cambio produce un Item nuevo.
// Los límites de Quality pertenecen a las reglas de envejecimiento (paquete decay).
type Item struct {
	ID         ID[Item]
	Name       string
	SellByDate *time.Time // fecha civil (medianoche UTC); nil = sin fecha de venta
	Quality    int
}

// NewItem construye un Item normalizando la fecha de venta a fecha civil UTC.
func NewItem(id ID[Item], name string, sellByDate *time.Time, quality int) Item {
	return Item{
		ID:         id,
		Name:       name,
		SellByDate: civilDate(sellByDate),
		Quality:    quality,
	}
}

// WithQuality devuelve una copia con otra calidad.
func (i Item) WithQuality(quality int) Item {
	i.Quality = quality
	return i
}

// WithSellByDate devuelve una copia con otra fecha de venta.
func (i Item) WithSellByDate(sellByDate *time.Time) Item {
	i.SellByDate = civilDate(sellByDate)
	return i
}

// WithPrice empareja el Item con un resultado de precio.
func (i Item) WithPrice(price PriceResult) PricedItem {
	return PricedItem{Item: i, Price: price}
}

// PricedItem Item más el resultado de consultar su precio (con precio, sin precio o fallido).
type PricedItem struct {
	Item
	Price PriceResult
}

// Date devuelve la fecha civil (año, mes, día) como time.Time a medianoche UTC.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func civilDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	return Date(y, m, d)
}
