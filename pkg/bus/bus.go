package bus

import (
	"sync"
	"time"
)

// BusEvent represents an observed contact mutation for dashboard streaming.
type BusEvent struct {
	Type    string        `json:"type"`
	Payload *ContactEvent `json:"payload,omitempty"`
	Time    time.Time     `json:"time"`
}

// EventBus fans events out to observers. Publishing never blocks on a slow observer.
type EventBus struct {
	observers []chan BusEvent
	obsMu     sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		observers: make([]chan BusEvent, 0),
	}
}

// Subscribe returns a channel that receives copies of all bus events.
func (eb *EventBus) Subscribe() chan BusEvent {
	ch := make(chan BusEvent, 50)
	eb.obsMu.Lock()
	eb.observers = append(eb.observers, ch)
	eb.obsMu.Unlock()
	return ch
}

// Unsubscribe removes an observer channel and closes it.
func (eb *EventBus) Unsubscribe(ch chan BusEvent) {
	eb.obsMu.Lock()
	defer eb.obsMu.Unlock()
	for i, obs := range eb.observers {
		if obs == ch {
			eb.observers = append(eb.observers[:i], eb.observers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (eb *EventBus) notifyObservers(event BusEvent) {
	eb.obsMu.RLock()
	defer eb.obsMu.RUnlock()
	for _, obs := range eb.observers {
		select {
		case obs <- event:
		default:
			// Non-blocking: skip slow observers
		}
	}
}

// Publish stamps and broadcasts an event. A nil bus drops it.
func (eb *EventBus) Publish(eventType string, payload *ContactEvent) {
	if eb == nil {
		return
	}
	eb.notifyObservers(BusEvent{
		Type:    eventType,
		Payload: payload,
		Time:    time.Now(),
	})
}

// Close unsubscribes and closes every observer.
func (eb *EventBus) Close() {
	eb.obsMu.Lock()
	defer eb.obsMu.Unlock()
	for _, obs := range eb.observers {
		close(obs)
	}
	eb.observers = nil
}
