// Package analytics define los eventos de observabilidad del pipeline de stock y el puerto
// del sumidero que los recibe.
//
// Un sumidero es "dispara y olvida": nunca devuelve error, nunca entra en pánico hacia el
// llamador y no debe bloquear el pipeline.
package analytics

import (
	"sync"
)

// Event evento de analítica.
type Event interface {
	// Name nombre estable del tipo de evento (p. ej. "uncaught_exception").
	Name() string
	// Fields campos estructurados para el sumidero.
	Fields() map[string]any
}

// Analytics puerto del sumidero de eventos.
type Analytics interface {
	Emit(event Event)
}

// Func adapta una función a Analytics.
type Func func(event Event)

func (f Func) Emit(event Event) { f(event) }

// Nop descarta todos los eventos.
var Nop Analytics = Func(func(Event) {})

// UncaughtExceptionEvent un fallo no controlado (p. ej. un intento de precio fallido).
type UncaughtExceptionEvent struct {
	Err error
}

func (UncaughtExceptionEvent) Name() string { return "uncaught_exception" }

func (e UncaughtExceptionEvent) Fields() map[string]any {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return map[string]any{"error": msg}
}

// ItemsBackfilledEvent estadística de la fusión de fuentes: items semilla insertados en la durable.
type ItemsBackfilledEvent struct {
	Count int
}

func (ItemsBackfilledEvent) Name() string { return "items_backfilled" }

func (e ItemsBackfilledEvent) Fields() map[string]any {
	return map[string]any{"count": e.Count}
}

// Safe envuelve un sumidero para que un pánico en él nunca llegue al pipeline.
func Safe(a Analytics) Analytics {
	if a == nil {
		return Nop
	}
	return Func(func(event Event) {
		defer func() { _ = recover() }()
		a.Emit(event)
	})
}

// Multi reparte cada evento a todos los sumideros; cada uno queda protegido con Safe.
func Multi(sinks ...Analytics) Analytics {
	safe := make([]Analytics, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			safe = append(safe, Safe(s))
		}
	}
	return Func(func(event Event) {
		for _, s := range safe {
			s.Emit(event)
		}
	})
}

// Recorder guarda los eventos emitidos; útil en tests y diagnósticos.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events copia de los eventos recibidos.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
