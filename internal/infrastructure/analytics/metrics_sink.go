package analytics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/jhoicas/stock-sync/internal/application/analytics"
)

var _ appanalytics.Analytics = (*MetricsSink)(nil)

// MetricsSink cuenta eventos por nombre y acumula los items completados desde la semilla.
type MetricsSink struct {
	events     *prometheus.CounterVec
	backfilled prometheus.Counter
}

// NewMetricsSink registra los contadores en reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	m := &MetricsSink{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stock",
			Name:      "analytics_events_total",
			Help:      "Eventos de analítica emitidos, por tipo.",
		}, []string{"event"}),
		backfilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stock",
			Name:      "items_backfilled_total",
			Help:      "Items semilla insertados en la fuente durable.",
		}),
	}
	for _, c := range []prometheus.Collector{m.events, m.backfilled} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registrar métrica: %w", err)
		}
	}
	return m, nil
}

func (m *MetricsSink) Emit(event appanalytics.Event) {
	m.events.WithLabelValues(event.Name()).Inc()
	if b, ok := event.(appanalytics.ItemsBackfilledEvent); ok && b.Count > 0 {
		m.backfilled.Add(float64(b.Count))
	}
}

// EventsCounter contador de un tipo de evento.
func (m *MetricsSink) EventsCounter(name string) prometheus.Counter {
	return m.events.WithLabelValues(name)
}

// BackfilledCounter total de items completados desde la semilla.
func (m *MetricsSink) BackfilledCounter() prometheus.Counter {
	return m.backfilled
}
