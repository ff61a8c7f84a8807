// Package analytics contiene los sumideros concretos de eventos de analítica: log
// estructurado, métricas Prometheus y un stream de Redis.
package analytics

import (
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/stock-sync/internal/application/analytics"
)

var _ appanalytics.Analytics = (*LoggingSink)(nil)

// LoggingSink escribe una línea estructurada por evento.
type LoggingSink struct {
	log zerolog.Logger
}

// NewLoggingSink construye el sumidero.
func NewLoggingSink(log zerolog.Logger) *LoggingSink {
	return &LoggingSink{log: log.With().Str("component", "analytics").Logger()}
}

func (s *LoggingSink) Emit(event appanalytics.Event) {
	e := s.log.Info()
	if _, ok := event.(appanalytics.UncaughtExceptionEvent); ok {
		e = s.log.Warn()
	}
	e.Str("event", event.Name()).Fields(event.Fields()).Msg("analytics")
}
