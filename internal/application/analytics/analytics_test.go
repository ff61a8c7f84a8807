package analytics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-sync/internal/application/analytics"
)

func TestSafe_PanicoEnSumidero_NoSePropaga(t *testing.T) {
	panicky := analytics.Func(func(analytics.Event) { panic("sumidero roto") })

	assert.NotPanics(t, func() {
		analytics.Safe(panicky).Emit(analytics.ItemsBackfilledEvent{Count: 1})
	})
}

func TestSafe_Nil_DevuelveNop(t *testing.T) {
	assert.NotPanics(t, func() {
		analytics.Safe(nil).Emit(analytics.ItemsBackfilledEvent{Count: 1})
	})
}

func TestMulti_RepartiAATodosAunqueUnoFalle(t *testing.T) {
	first := &analytics.Recorder{}
	second := &analytics.Recorder{}
	broken := analytics.Func(func(analytics.Event) { panic("x") })

	sink := analytics.Multi(first, broken, nil, second)
	event := analytics.UncaughtExceptionEvent{Err: errors.New("deliberate")}
	sink.Emit(event)

	assert.Equal(t, []analytics.Event{event}, first.Events())
	assert.Equal(t, []analytics.Event{event}, second.Events())
}

func TestUncaughtExceptionEvent_Campos(t *testing.T) {
	e := analytics.UncaughtExceptionEvent{Err: errors.New("deliberate")}
	assert.Equal(t, "uncaught_exception", e.Name())
	assert.Equal(t, map[string]any{"error": "deliberate"}, e.Fields())

	assert.Equal(t, map[string]any{"error": ""}, analytics.UncaughtExceptionEvent{}.Fields())
}
