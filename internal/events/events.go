// Package events is a small in-process pub/sub bus gluing the sync loop to
// its passive consumers (store persistence, metrics) without coupling them.
package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSnapshotApplied     = "snapshot.applied"
	EventTransitionCompleted = "transition.completed"
)

// Event carries a type tag and a JSON payload.
type Event struct {
	Type    string
	Payload []byte
	At      time.Time
}

// SnapshotAppliedPayload describes one applied refresh cycle.
type SnapshotAppliedPayload struct {
	Scope      string `json:"scope"`
	Generation uint64 `json:"generation"`
	Failures   int    `json:"failures"`
}

// TransitionCompletedPayload describes one finished transition attempt.
type TransitionCompletedPayload struct {
	Action     string `json:"action"`
	EntityID   int64  `json:"entity_id"`
	WorkflowID string `json:"workflow_id,omitempty"`
	Outcome    string `json:"outcome"` // "success" or "failure"
	Message    string `json:"message,omitempty"`
}

// DecodeSnapshotApplied unmarshals a snapshot.applied payload.
func DecodeSnapshotApplied(ev Event) (SnapshotAppliedPayload, error) {
	var payload SnapshotAppliedPayload
	err := json.Unmarshal(ev.Payload, &payload)
	return payload, err
}

// DecodeTransitionCompleted unmarshals a transition.completed payload.
func DecodeTransitionCompleted(ev Event) (TransitionCompletedPayload, error) {
	var payload TransitionCompletedPayload
	err := json.Unmarshal(ev.Payload, &payload)
	return payload, err
}

// Handler processes one event. A handler error is the handler's own problem;
// the bus keeps delivering to the rest.
type Handler func(Event) error

// EventBus fans events out to subscribers synchronously, in subscription
// order, on the publisher's goroutine.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]Handler)}
}

func (b *EventBus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
	b.mu.Unlock()
}

func (b *EventBus) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ev := Event{Type: eventType, Payload: data, At: time.Now()}

	b.mu.RLock()
	handlers := b.handlers[eventType]
	b.mu.RUnlock()

	for _, h := range handlers {
		_ = h(ev)
	}
}
