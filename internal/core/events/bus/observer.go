package bus

import (
	"time"

	"github.com/zeusync/htmlbox/internal/core/observability/log"
)

// LogObserver reports failed and slow deliveries. Prisms publish once per
// animation step, so a handler slower than a step delays the roll.
type LogObserver struct {
	logger log.Log
	slow   time.Duration
}

var _ Observer = (*LogObserver)(nil)

// NewLogObserver warns about deliveries that fail or take longer than slow.
// A non-positive slow disables the latency check.
func NewLogObserver(logger log.Log, slow time.Duration) *LogObserver {
	return &LogObserver{
		logger: log.OrNop(logger).With(log.String("component", "bus")),
		slow:   slow,
	}
}

func (o *LogObserver) OnPublish(string, Event) {}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error, took time.Duration) {
	switch {
	case err != nil:
		o.logger.Warn("Event handlers failed",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Error(err),
		)
	case o.slow > 0 && took > o.slow:
		o.logger.Warn("Slow event delivery",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Duration("took", took),
		)
	}
}
