// Package events distributes session lifecycle notifications to
// registered observers: progress printers, persistence hooks, test
// collectors. The simulation itself never depends on observers being
// present; dispatch with zero observers is a no-op.
package events

import (
	"context"
	"log"
	"sync"
)

// Event is one domain notification.
type Event struct {
	// Type identifies the notification, e.g. "match:completed".
	Type string

	// Data is the typed payload, one of the structs in messages.go.
	Data any

	// Context carries the execution context of the emitting session.
	Context context.Context
}

// Observer receives dispatched events.
type Observer interface {
	// OnEvent handles one event. Errors are logged, never propagated:
	// a broken observer must not stop a running session.
	OnEvent(event Event) error

	// Name identifies the observer in logs.
	Name() string

	// ShouldHandle filters event types before OnEvent is called.
	ShouldHandle(eventType string) bool
}

// Dispatcher fans events out to observers in registration order.
// Safe for concurrent use, though a batch session dispatches from a
// single goroutine.
type Dispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds an observer for all future events.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
}

// Unregister removes a previously registered observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			return
		}
	}
}

// Dispatch notifies every interested observer sequentially. An observer
// error is logged and the remaining observers still run.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[events] observer %s failed on %s: %v", observer.Name(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all observers.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = nil
}

// New builds an event carrying a typed payload.
func New(eventType string, data any, ctx context.Context) Event {
	return Event{Type: eventType, Data: data, Context: ctx}
}

// Payload extracts a typed payload from an event. Returns the zero
// value and false when the payload is absent or of another type.
func Payload[T any](event Event) (T, bool) {
	var zero T
	if event.Data == nil {
		return zero, false
	}
	typed, ok := event.Data.(T)
	return typed, ok
}
