// Package worker runs background consumers of domain events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/events"
)

// ErrQueueFull is returned to the dispatcher when an event cannot be queued.
var ErrQueueFull = errors.New("notification queue full")

const (
	defaultQueueSize = 64
	deliveryTimeout  = 10 * time.Second
)

// Notifier delivers the notifications for a single event.
type Notifier interface {
	Notify(ctx context.Context, event events.Event) error
}

// NotificationWorker queues events published on the request path and
// delivers them from its own goroutine.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event
	done     chan struct{}
}

// NewNotificationWorker builds a worker with room for queueSize pending
// events. A non-positive size selects the default.
func NewNotificationWorker(notifier Notifier, logger *zap.Logger, queueSize int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, queueSize),
		done:     make(chan struct{}),
	}
}

// StartNotificationWorker subscribes a new worker to eventTypes and starts
// it. The worker stops when ctx is cancelled.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger, eventTypes ...events.EventType) *NotificationWorker {
	w := NewNotificationWorker(notifier, logger, defaultQueueSize)
	w.Subscribe(dispatcher, eventTypes...)
	w.Start(ctx)
	return w
}

// Subscribe routes every event of the given types into the queue.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher, eventTypes ...events.EventType) {
	for _, eventType := range eventTypes {
		dispatcher.Subscribe(eventType, w.Enqueue)
	}
}

// Enqueue never blocks; a full queue drops the event.
func (w *NotificationWorker) Enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s %s", ErrQueueFull, event.Type, event.ID)
	}
}

// Start launches the delivery loop.
func (w *NotificationWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Wait blocks until the delivery loop has drained the queue and exited.
func (w *NotificationWorker) Wait() {
	<-w.done
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return
		case event := <-w.queue:
			w.deliver(ctx, event)
		}
	}
}

// drain delivers whatever is still queued at shutdown.
func (w *NotificationWorker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, event events.Event) {
	deliverCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()
	if err := w.notifier.Notify(deliverCtx, event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
