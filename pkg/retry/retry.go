// Package retry implementa un combinador de reintentos acotado:
// intentar f, reintentar ante fallo hasta MaxAttempts y devolver el último error como dato.
package retry

import (
	"context"
)

// Policy parámetros del combinador.
type Policy struct {
	// MaxAttempts número total de intentos (incluye el primero). Menor a 1 equivale a 1.
	MaxAttempts int
	// OnFailure se invoca una vez por cada intento fallido, incluido el último.
	OnFailure func(attempt int, err error)
}

// Do ejecuta fn según la política. Devuelve el primer éxito o el error del último intento.
// Si ctx termina entre intentos, no se reintenta y se devuelve el último error.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn(ctx, attempt)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if p.OnFailure != nil {
			p.OnFailure(attempt, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return zero, lastErr
}
