// Package pricing implementa el cliente HTTP del servicio externo de precios (value-elf) y
// las rutas del servidor falso usado en demos.
package pricing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// ValueElfClient consulta GET <baseURL>?id=<id>&quality=<quality>.
// 200 con un entero en el cuerpo = precio en peniques; 404 = sin precio; otro = error.
type ValueElfClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	policy     entity.PricePolicy
}

// NewValueElfClient construye el cliente. httpClient nil usa http.DefaultClient; el límite
// de tiempo por llamada lo impone el cargador de precios vía context.
func NewValueElfClient(baseURL string, policy entity.PricePolicy, httpClient *http.Client) (*ValueElfClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("value-elf: URL inválida %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ValueElfClient{baseURL: u, httpClient: httpClient, policy: policy}, nil
}

// Price obtiene el precio de un item. Firma compatible con pricing.Func.
func (c *ValueElfClient) Price(ctx context.Context, item entity.Item) (*entity.Price, error) {
	u := *c.baseURL
	q := u.Query()
	q.Set("id", item.ID.String())
	q.Set("quality", strconv.Itoa(item.Quality))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("value-elf: crear request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("value-elf: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	if err != nil {
		return nil, fmt.Errorf("value-elf: leer respuesta: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		pence, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value-elf: precio inválido %q: %w", strings.TrimSpace(string(body)), err)
		}
		price, err := c.policy.Apply(pence)
		if err != nil {
			return nil, fmt.Errorf("value-elf: %w", err)
		}
		return &price, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("value-elf: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
