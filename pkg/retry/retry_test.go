package retry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/pkg/retry"
)

// succeedAfter devuelve una función que falla n veces y luego devuelve v.
func succeedAfter(n int, v string) (func(context.Context, int) (string, error), *int) {
	calls := 0
	return func(context.Context, int) (string, error) {
		calls++
		if calls <= n {
			return "", errors.New("deliberate")
		}
		return v, nil
	}, &calls
}

func TestDo_ExitoAlPrimerIntento_SinFallos(t *testing.T) {
	fn, calls := succeedAfter(0, "ok")
	var failures []int
	v, err := retry.Do(context.Background(), retry.Policy{
		MaxAttempts: 2,
		OnFailure:   func(attempt int, _ error) { failures = append(failures, attempt) },
	}, fn)

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, *calls)
	assert.Empty(t, failures)
}

func TestDo_RecuperaEnElReintento_UnFallo(t *testing.T) {
	fn, calls := succeedAfter(1, "ok")
	var failures []int
	v, err := retry.Do(context.Background(), retry.Policy{
		MaxAttempts: 2,
		OnFailure:   func(attempt int, _ error) { failures = append(failures, attempt) },
	}, fn)

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, []int{1}, failures)
}

func TestDo_FallaSiempre_DevuelveUltimoError(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	var seen []error
	_, err := retry.Do(context.Background(), retry.Policy{
		MaxAttempts: 2,
		OnFailure:   func(_ int, err error) { seen = append(seen, err) },
	}, func(_ context.Context, attempt int) (int, error) {
		if attempt == 1 {
			return 0, first
		}
		return 0, second
	})

	assert.Same(t, second, err, "debe devolverse el error del segundo intento")
	assert.Equal(t, []error{first, second}, seen, "un OnFailure por intento fallido")
}

func TestDo_ContextoCancelado_NoReintenta(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fn, calls := succeedAfter(5, "nunca")
	_, err := retry.Do(ctx, retry.Policy{MaxAttempts: 3}, func(ctx context.Context, attempt int) (string, error) {
		cancel()
		return fn(ctx, attempt)
	})

	assert.Error(t, err)
	assert.Equal(t, 1, *calls)
}

func TestDo_MaxAttemptsCero_EquivaleAUno(t *testing.T) {
	fn, calls := succeedAfter(1, "ok")
	_, err := retry.Do(context.Background(), retry.Policy{}, fn)

	assert.Error(t, err)
	assert.Equal(t, 1, *calls)
}
