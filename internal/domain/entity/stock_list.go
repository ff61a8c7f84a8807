package entity

import "time"

// StockList lista de stock con su marca de versión (LastModified).
// Siempre se reconstruye; las operaciones devuelven listas nuevas.
type StockList struct {
	LastModified time.Time
	Items        []Item
}

// NewStockList copia los items para que la lista no comparta el slice del llamador.
func NewStockList(lastModified time.Time, items []Item) StockList {
	copied := make([]Item, len(items))
	copy(copied, items)
	return StockList{LastModified: lastModified.UTC(), Items: copied}
}

// Len número de items.
func (s StockList) Len() int { return len(s.Items) }

// Contains indica si algún item tiene el ID dado.
func (s StockList) Contains(id ID[Item]) bool {
	for _, it := range s.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// IDs conjunto de IDs presentes.
func (s StockList) IDs() map[ID[Item]]struct{} {
	ids := make(map[ID[Item]]struct{}, len(s.Items))
	for _, it := range s.Items {
		ids[it.ID] = struct{}{}
	}
	return ids
}

// Without devuelve una lista nueva sin los items cuyos IDs están en ids, estampada en now.
func (s StockList) Without(ids map[ID[Item]]struct{}, now time.Time) StockList {
	kept := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if _, drop := ids[it.ID]; !drop {
			kept = append(kept, it)
		}
	}
	return StockList{LastModified: now.UTC(), Items: kept}
}

// With devuelve una lista nueva con item agregado al final, estampada en now.
func (s StockList) With(item Item, now time.Time) StockList {
	items := make([]Item, 0, len(s.Items)+1)
	items = append(items, s.Items...)
	items = append(items, item)
	return StockList{LastModified: now.UTC(), Items: items}
}

// Restamped devuelve la misma lista con otra marca de versión.
func (s StockList) Restamped(now time.Time) StockList {
	return NewStockList(now, s.Items)
}

// PricedStockList lista de stock con el resultado de precio de cada item.
type PricedStockList struct {
	LastModified time.Time
	Items        []PricedItem
}

// CountByState cuenta items por estado de precio.
func (s PricedStockList) CountByState() map[PriceState]int {
	counts := make(map[PriceState]int, 3)
	for _, it := range s.Items {
		counts[it.Price.State()]++
	}
	return counts
}
