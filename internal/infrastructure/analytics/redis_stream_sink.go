package analytics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/stock-sync/internal/application/analytics"
)

const (
	defaultStreamMaxLen = 10_000
	xaddTimeout         = 2 * time.Second
)

var _ appanalytics.Analytics = (*RedisStreamSink)(nil)

// RedisStreamSink publica cada evento en un stream de Redis (XADD) desde una goroutine propia.
// Emit nunca bloquea: si la cola está llena, el evento se descarta y se cuenta.
type RedisStreamSink struct {
	client  *redis.Client
	stream  string
	queue   chan appanalytics.Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
	log     zerolog.Logger
}

// NewRedisStreamSink arranca el publicador con una cola de tamaño buffer.
func NewRedisStreamSink(client *redis.Client, stream string, buffer int, log zerolog.Logger) *RedisStreamSink {
	if buffer < 1 {
		buffer = 256
	}
	s := &RedisStreamSink{
		client: client,
		stream: stream,
		queue:  make(chan appanalytics.Event, buffer),
		done:   make(chan struct{}),
		log:    log.With().Str("component", "analytics_redis").Str("stream", stream).Logger(),
	}
	go s.run()
	return s
}

func (s *RedisStreamSink) Emit(event appanalytics.Event) {
	defer func() {
		// Emit después de Close: la cola ya está cerrada.
		if recover() != nil {
			s.dropped.Add(1)
		}
	}()
	select {
	case s.queue <- event:
	default:
		s.dropped.Add(1)
	}
}

// Dropped eventos descartados por cola llena o sink cerrado.
func (s *RedisStreamSink) Dropped() int64 { return s.dropped.Load() }

// Close deja de aceptar eventos y espera a que se publiquen los pendientes o venza ctx.
func (s *RedisStreamSink) Close(ctx context.Context) error {
	s.once.Do(func() { close(s.queue) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RedisStreamSink) run() {
	defer close(s.done)
	for event := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), xaddTimeout)
		err := s.client.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: defaultStreamMaxLen,
			Approx: true,
			Values: streamValues(event),
		}).Err()
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Str("event", event.Name()).Msg("no se pudo publicar evento")
		}
	}
}

func streamValues(event appanalytics.Event) map[string]any {
	values := map[string]any{
		"event": event.Name(),
		"at":    time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range event.Fields() {
		values[k] = fmt.Sprint(v)
	}
	return values
}
