package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceResponse resultado de precio de un item. State: priced, unpriced o failed.
type PriceResponse struct {
	State  string           `json:"state"`
	Pence  *int64           `json:"pence,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// StockItemResponse item de la lista con su precio.
type StockItemResponse struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	SellByDate *string       `json:"sell_by_date"` // YYYY-MM-DD; null = sin fecha
	Quality    int           `json:"quality"`
	Price      PriceResponse `json:"price"`
}

// StockListResponse lista de stock con precios.
type StockListResponse struct {
	LastModified *time.Time          `json:"last_modified"`
	Items        []StockItemResponse `json:"items"`
	Summary      StockSummary        `json:"summary"`
}

// StockSummary conteo por estado de precio.
type StockSummary struct {
	Priced   int `json:"priced"`
	Unpriced int `json:"unpriced"`
	Failed   int `json:"failed"`
}

// CreateItemRequest alta directa de un item. ID vacío = se genera uno.
type CreateItemRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	SellByDate string `json:"sell_by_date"` // YYYY-MM-DD; vacío = sin fecha
	Quality    int    `json:"quality"`
}

// ItemResponse salida de un item sin precio.
type ItemResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	SellByDate *string `json:"sell_by_date"`
	Quality    int     `json:"quality"`
}

// DeleteItemsRequest IDs de los items a eliminar.
type DeleteItemsRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1"`
}
