package events

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// EventListener processes events
type EventListener interface {
	HandleEvent(ctx context.Context, event *GameEvent) error
	// Priority orders listeners; lower runs first
	Priority() int
}

// ListenerFunc adapts a function to an EventListener
type ListenerFunc struct {
	Order int
	Fn    func(ctx context.Context, event *GameEvent) error
}

// HandleEvent calls Fn
func (l *ListenerFunc) HandleEvent(ctx context.Context, event *GameEvent) error {
	return l.Fn(ctx, event)
}

// Priority returns Order
func (l *ListenerFunc) Priority() int {
	return l.Order
}

// Bus is the interface for event bus implementations
type Bus interface {
	Subscribe(eventType EventType, listener EventListener)
	Unsubscribe(eventType EventType, listener EventListener)
	Emit(ctx context.Context, event *GameEvent) error
	ListenerCount(eventType EventType) int
}

// EventBus manages event listeners and dispatches events synchronously
type EventBus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventListener),
	}
}

// Subscribe adds a listener for an event type
func (eb *EventBus) Subscribe(eventType EventType, listener EventListener) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.listeners[eventType] = append(eb.listeners[eventType], listener)
}

// Unsubscribe removes a listener for an event type
func (eb *EventBus) Unsubscribe(eventType EventType, listener EventListener) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	listeners := eb.listeners[eventType]
	for i, l := range listeners {
		if l == listener {
			eb.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
			break
		}
	}
}

// Emit fires an event to all listeners in priority order. Listeners run on
// the caller's goroutine; the first error stops propagation.
func (eb *EventBus) Emit(ctx context.Context, event *GameEvent) error {
	if event == nil {
		return fmt.Errorf("cannot emit nil event")
	}

	listeners := eb.getListeners(event.Type)
	if len(listeners) == 0 {
		return nil
	}

	sort.SliceStable(listeners, func(i, j int) bool {
		return listeners[i].Priority() < listeners[j].Priority()
	})

	for _, listener := range listeners {
		if err := listener.HandleEvent(ctx, event); err != nil {
			return fmt.Errorf("error handling event %s: %w", event.Type, err)
		}
		if event.Cancelled {
			break
		}
	}

	return nil
}

func (eb *EventBus) getListeners(eventType EventType) []EventListener {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	original := eb.listeners[eventType]
	if len(original) == 0 {
		return nil
	}

	listeners := make([]EventListener, len(original))
	copy(listeners, original)
	return listeners
}

// Clear removes all listeners
func (eb *EventBus) Clear() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.listeners = make(map[EventType][]EventListener)
}

// ListenerCount returns the number of listeners for an event type
func (eb *EventBus) ListenerCount(eventType EventType) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return len(eb.listeners[eventType])
}
