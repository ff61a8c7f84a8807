package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/pkg/logger"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestNew_ProduccionEsJSONYRespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: " WARN ", Out: &buf})

	l.Info().Msg("oculto")
	l.Warn().Str("k", "v").Msg("visible")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "visible", got[0]["message"])
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "v", got[0]["k"])
	assert.Contains(t, got[0], "time")
}

func TestNew_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "verbose", Out: &buf})

	l.Debug().Msg("no")
	l.Info().Msg("si")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "si", got[0]["message"])
}

func TestTxObserver_RegistraCicloDeVida(t *testing.T) {
	var buf bytes.Buffer
	obs := logger.NewTxObserver(logger.New(logger.Config{Env: "production", Level: "debug", Out: &buf}))
	ctx := context.Background()

	obs.TxBegin(ctx)
	obs.TxCommit(ctx)
	obs.TxRollback(ctx, errors.New("boom"))

	got := lines(t, &buf)
	require.Len(t, got, 3)
	assert.Equal(t, "begin", got[0]["message"])
	assert.Equal(t, "commit", got[1]["message"])
	assert.Equal(t, "rollback", got[2]["message"])
	assert.Equal(t, "warn", got[2]["level"])
	assert.Equal(t, "boom", got[2]["error"])
	for _, m := range got {
		assert.Equal(t, "tx", m["component"])
	}
}
