package lifecycle

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/optiretail/optiretail/internal/platform/metrics"
)

// Observer reacts to lifecycle events.
type Observer interface {
	Handle(ctx context.Context, ev Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event) error

func (f ObserverFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Dispatcher fans events out to the observers subscribed to their entity.
type Dispatcher struct {
	mu        sync.RWMutex
	observers map[Entity][]Observer
	logger    zerolog.Logger
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		observers: make(map[Entity][]Observer),
		logger:    logger.With().Str("component", "lifecycle").Logger(),
	}
}

// Subscribe registers obs for events about entity. Observers run in
// subscription order.
func (d *Dispatcher) Subscribe(entity Entity, obs Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers[entity] = append(d.observers[entity], obs)
}

// Dispatch runs every observer of ev's entity and returns the first error
// unchanged. Observers after a failing one do not run.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	d.mu.RLock()
	observers := d.observers[ev.Of()]
	d.mu.RUnlock()

	metrics.RecordLifecycleEvent(string(ev.Of()), ev.Kind())
	d.logger.Debug().
		Str("entity", string(ev.Of())).
		Str("event", ev.Kind()).
		Int("observers", len(observers)).
		Msg("dispatching lifecycle event")

	for _, obs := range observers {
		if err := obs.Handle(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Emitter raises lifecycle events. *Dispatcher implements it.
type Emitter interface {
	Dispatch(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Dispatch(context.Context, Event) error { return nil }
