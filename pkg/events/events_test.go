package events

import (
	"context"
	"testing"
	"time"
)

func TestBus_PublishAndReceive(t *testing.T) {
	bus := NewBus()
	defer bus.Shutdown()

	sub, err := bus.Subscribe(context.Background(), TopicConnections)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	bus.PublishConnection(KindCreated, "alice", "bob")

	select {
	case msg := <-sub.Channel():
		ev, ok := msg.(ConnectionEvent)
		if !ok {
			t.Fatalf("unexpected message type %T", msg)
		}
		if ev.Kind != KindCreated || ev.From != "alice" || ev.To != "bob" {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	defer bus.Shutdown()

	// Must not panic or block
	bus.PublishConnection(KindRemoved, "a", "b")
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Shutdown()

	sub, err := bus.Subscribe(context.Background(), TopicNetworks)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if got := bus.SubscriberCount(TopicNetworks); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	sub.Unsubscribe()

	if got := bus.SubscriberCount(TopicNetworks); got != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", got)
	}
	if _, open := <-sub.Channel(); open {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestBus_SubscribeAfterShutdown(t *testing.T) {
	bus := NewBus()
	bus.Shutdown()

	if _, err := bus.Subscribe(context.Background(), TopicConnections); err != ErrBusClosed {
		t.Errorf("expected ErrBusClosed, got %v", err)
	}
}
