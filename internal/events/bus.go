// Package events is the in-process publish/subscribe bus that carries
// committed mutations to their listeners.
//
// Delivery is at-most-once and volatile. Nothing is persisted, and an event
// whose handlers have not run when the process stops is lost.
package events

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"github.com/anonto42/nano-midea/engagement/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event is the envelope handed to every handler.
type Event struct {
	ID        string `json:"eventId"`
	Name      string `json:"eventName"`
	Timestamp int64  `json:"timestampMs"`
	Payload   any    `json:"payload"`
}

// Handler consumes one event. A returned error is logged and counted; it
// never reaches the publisher.
type Handler func(ctx context.Context, evt Event) error

// Publisher is the side of the bus that mutation services depend on.
type Publisher interface {
	Publish(ctx context.Context, name string, payload any) Event
}

// Subscriber is the side of the bus that listeners register with.
type Subscriber interface {
	Subscribe(name, listener string, h Handler)
}

type subscription struct {
	listener string
	handle   Handler
}

// Bus dispatches each published event to the handlers subscribed to its name.
type Bus struct {
	mu    sync.RWMutex
	subs  map[string][]subscription
	wg    sync.WaitGroup
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// NewBus creates a bus. Build one per process and pass it to every
// component that publishes or subscribes.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs:  make(map[string][]subscription),
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Subscribe registers h for events named name. listener identifies the
// handler in logs and metrics.
func (b *Bus) Subscribe(name, listener string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[name] = append(b.subs[name], subscription{listener: listener, handle: h})
}

// Publish builds the event and starts every matching handler on its own
// goroutine, in registration order, then returns without waiting. Handlers
// get a context that keeps ctx's values but not its cancellation.
func (b *Bus) Publish(ctx context.Context, name string, payload any) Event {
	evt := Event{
		ID:        b.newID(),
		Name:      name,
		Timestamp: b.now().UnixMilli(),
		Payload:   payload,
	}
	metrics.EventsPublished.WithLabelValues(name).Inc()

	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[name]...)
	b.mu.RUnlock()

	hctx := context.WithoutCancel(ctx)
	for _, s := range subs {
		b.wg.Add(1)
		go b.dispatch(hctx, s, evt)
	}
	return evt
}

func (b *Bus) dispatch(ctx context.Context, s subscription, evt Event) {
	defer b.wg.Done()

	fail := func(err error) {
		metrics.EventHandlerFailures.WithLabelValues(evt.Name, s.listener).Inc()
		b.log.Error().Err(err).
			Str(logger.FieldEvent, evt.Name).
			Str(logger.FieldEventID, evt.ID).
			Str(logger.FieldListener, s.listener).
			Msg("event handler failed")
	}
	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
		}
	}()

	if err := s.handle(ctx, evt); err != nil {
		fail(err)
	}
}

// Wait blocks until every handler started so far has returned, or until
// ctx is done.
func (b *Bus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Typed adapts a handler that expects payloads of type T. A payload of any
// other type is reported as a handler error.
func Typed[T any](fn func(ctx context.Context, evt Event, payload T) error) Handler {
	return func(ctx context.Context, evt Event) error {
		payload, ok := evt.Payload.(T)
		if !ok {
			return fmt.Errorf("event %s: unexpected payload type %T", evt.Name, evt.Payload)
		}
		return fn(ctx, evt, payload)
	}
}
