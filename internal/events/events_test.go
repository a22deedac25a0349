package events

import (
	"errors"
	"testing"
)

func TestPublishFansOutInOrder(t *testing.T) {
	bus := NewEventBus()

	var order []string
	bus.Subscribe(EventSnapshotApplied, func(ev Event) error {
		order = append(order, "first")
		return errors.New("handler error must not stop delivery")
	})
	bus.Subscribe(EventSnapshotApplied, func(ev Event) error {
		order = append(order, "second")
		return nil
	})
	bus.Subscribe(EventTransitionCompleted, func(ev Event) error {
		t.Error("handler for another event type must not fire")
		return nil
	})

	bus.Publish(EventSnapshotApplied, SnapshotAppliedPayload{Scope: "frontdesk", Generation: 3})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected both handlers in subscription order, got %v", order)
	}
}

func TestDecodePayloads(t *testing.T) {
	bus := NewEventBus()

	var got SnapshotAppliedPayload
	bus.Subscribe(EventSnapshotApplied, func(ev Event) error {
		payload, err := DecodeSnapshotApplied(ev)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		got = payload
		return nil
	})
	bus.Publish(EventSnapshotApplied, SnapshotAppliedPayload{Scope: "housekeeping", Generation: 7, Failures: 1})

	if got.Scope != "housekeeping" || got.Generation != 7 || got.Failures != 1 {
		t.Errorf("payload mangled in transit: %+v", got)
	}
}
