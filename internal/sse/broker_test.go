package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "node.registered", Data: map[string]string{"node_id": "root"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: node.registered") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"node_id":"root"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishChainEvent_Throttle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger chain.updated.
	b.PublishChainEvent("registered", "node-a")
	// Second event immediately should NOT trigger another chain.updated.
	b.PublishChainEvent("bid", "bid-1")

	// Drain and count events.
	time.Sleep(50 * time.Millisecond)
	chainCount := 0
	nodeCount := 0
loop:
	for {
		select {
		case msg := <-ch:
			s := string(msg)
			if strings.Contains(s, "chain.updated") {
				chainCount++
			} else {
				nodeCount++
			}
		default:
			break loop
		}
	}

	if nodeCount != 2 {
		t.Errorf("node events = %d, want 2", nodeCount)
	}
	if chainCount != 1 {
		t.Errorf("chain events = %d, want 1 (throttled)", chainCount)
	}
}

func TestChainEventTypes(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChainEvent("bid", "bid-42")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: bid.created") {
			t.Errorf("event = %q, want bid.created", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Publish(Event{Type: "node.registered", Data: map[string]string{"node_id": "x"}})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: node.registered") {
		t.Errorf("handler output = %q", body)
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker(time.Millisecond)
	ch := b.Subscribe()
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("client channel open after Close")
	}
	if b.ClientCount() != 0 {
		t.Errorf("count after close = %d", b.ClientCount())
	}
}
