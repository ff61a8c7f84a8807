package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/shopspring/decimal"
)

// Price monto no negativo en la unidad mínima de la moneda (peniques).
type Price int64

// NewPrice valida que el monto no sea negativo. Cero es un precio válido.
func NewPrice(pence int64) (Price, error) {
	if pence < 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrNegativePrice, pence)
	}
	return Price(pence), nil
}

// Pence devuelve el monto en unidades mínimas.
func (p Price) Pence() int64 { return int64(p) }

// Decimal devuelve el monto en unidades mayores (libras) para presentación.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -2)
}

func (p Price) String() string {
	return "£" + p.Decimal().StringFixed(2)
}

// PricePolicy decide qué hacer con montos negativos recibidos de un servicio externo.
type PricePolicy string

const (
	PricePolicyReject PricePolicy = "reject" // negativo = fallo de precio
	PricePolicyClamp  PricePolicy = "clamp"  // negativo = 0
)

// ParsePricePolicy interpreta la política configurada; vacío equivale a reject.
func ParsePricePolicy(s string) (PricePolicy, error) {
	switch PricePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PricePolicyReject:
		return PricePolicyReject, nil
	case PricePolicyClamp:
		return PricePolicyClamp, nil
	default:
		return "", fmt.Errorf("%w: política de precio %q", domain.ErrInvalidInput, s)
	}
}

// Apply construye un Price según la política.
func (p PricePolicy) Apply(pence int64) (Price, error) {
	if p == PricePolicyClamp && pence < 0 {
		return 0, nil
	}
	return NewPrice(pence)
}

// PriceState estado de un PriceResult.
type PriceState string

const (
	PriceStatePriced   PriceState = "priced"
	PriceStateUnpriced PriceState = "unpriced"
	PriceStateFailed   PriceState = "failed"
)

// PriceResult resultado de consultar el precio de un Item: precio, ausencia explícita
// (éxito sin precio) o fallo capturado. Todo consumidor debe contemplar los tres casos.
type PriceResult struct {
	price *Price
	err   error
}

// Priced éxito con precio.
func Priced(p Price) PriceResult { return PriceResult{price: &p} }

// Unpriced éxito sin precio: el servicio no puede cotizar el artículo ahora.
func Unpriced() PriceResult { return PriceResult{} }

// PricingFailed fallo al obtener el precio.
func PricingFailed(err error) PriceResult { return PriceResult{err: err} }

// PriceResultOf construye el resultado a partir del retorno de una función de precios.
func PriceResultOf(p *Price, err error) PriceResult {
	if err != nil {
		return PricingFailed(err)
	}
	if p == nil {
		return Unpriced()
	}
	return Priced(*p)
}

// Get devuelve el precio (nil si no hay) o el error capturado.
func (r PriceResult) Get() (*Price, error) {
	return r.price, r.err
}

// State clasifica el resultado.
func (r PriceResult) State() PriceState {
	switch {
	case r.err != nil:
		return PriceStateFailed
	case r.price == nil:
		return PriceStateUnpriced
	default:
		return PriceStatePriced
	}
}

// Err error capturado (nil si no falló).
func (r PriceResult) Err() error { return r.err }
