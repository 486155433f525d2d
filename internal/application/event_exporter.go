package application

import (
	"context"
	"sync/atomic"
	"time"

	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"

	"go.uber.org/zap"
)

const (
	defaultExportQueueSize = 256
	exportFlushTimeout     = 5 * time.Second
)

type exportedEvent struct {
	lookupID string
	event    entity.Event
}

// EventExporter hands run events to a publisher from a single background
// goroutine. Export never blocks: events that do not fit in the queue are dropped.
type EventExporter struct {
	publisher domainService.EventPublisher
	queue     chan exportedEvent
	logger    *zap.Logger
	dropped   atomic.Uint64
	done      chan struct{}
}

// NewEventExporter starts the export loop. It drains the queue until ctx is
// cancelled, then flushes what is left within a bounded time.
func NewEventExporter(
	ctx context.Context,
	publisher domainService.EventPublisher,
	queueSize int,
	logger *zap.Logger,
) *EventExporter {
	if queueSize <= 0 {
		queueSize = defaultExportQueueSize
	}
	x := &EventExporter{
		publisher: publisher,
		queue:     make(chan exportedEvent, queueSize),
		logger:    logger.Named("EventExporter"),
		done:      make(chan struct{}),
	}
	go x.loop(ctx)
	return x
}

// Export enqueues ev for publishing and reports whether it was accepted.
func (x *EventExporter) Export(lookupID string, ev entity.Event) bool {
	select {
	case x.queue <- exportedEvent{lookupID: lookupID, event: ev}:
		return true
	default:
		n := x.dropped.Add(1)
		x.logger.Warn("Export queue full, dropping event",
			zap.String("lookupId", lookupID),
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("dropped", n))
		return false
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (x *EventExporter) Dropped() uint64 {
	return x.dropped.Load()
}

// Done is closed once the export loop has flushed and exited.
func (x *EventExporter) Done() <-chan struct{} {
	return x.done
}

func (x *EventExporter) loop(ctx context.Context) {
	defer close(x.done)

	for {
		select {
		case item := <-x.queue:
			x.publish(ctx, item)
		case <-ctx.Done():
			x.flush()
			return
		}
	}
}

func (x *EventExporter) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), exportFlushTimeout)
	defer cancel()

	for {
		select {
		case item := <-x.queue:
			if ctx.Err() != nil {
				x.logger.Warn("Flush timed out, discarding queued events", zap.Int("remaining", len(x.queue)+1))
				return
			}
			x.publish(ctx, item)
		default:
			return
		}
	}
}

func (x *EventExporter) publish(ctx context.Context, item exportedEvent) {
	if err := x.publisher.Publish(ctx, item.lookupID, item.event); err != nil {
		x.logger.Warn("Failed to publish event",
			zap.String("lookupId", item.lookupID),
			zap.String("kind", string(item.event.Kind)),
			zap.Error(err))
	}
}
