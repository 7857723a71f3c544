package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topic string) *Client {
	return &Client{
		hub:   hub,
		topic: topic,
		send:  make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, TopicOrders)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[TopicOrders] == nil {
		t.Fatal("orders room not created")
	}
	if !hub.rooms[TopicOrders][client] {
		t.Fatal("client not registered in orders room")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, TopicOrders)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.leave(client)
	time.Sleep(10 * time.Millisecond)

	if n := hub.Subscribers(TopicOrders); n != 0 {
		t.Fatalf("subscribers after unregister: got %d, want 0", n)
	}
	if _, ok := <-client.send; ok {
		t.Fatal("send channel should be closed")
	}
}

func TestBroadcastToSingleTopic(t *testing.T) {
	hub := startHub(t)

	orders := mockClient(hub, TopicOrders)
	other := mockClient(hub, "kitchen")

	hub.register <- orders
	hub.register <- other
	time.Sleep(10 * time.Millisecond)

	testPayload := json.RawMessage(`{"order_number":"BRT-0001"}`)
	hub.Broadcast(TopicOrders, Event{Type: EventOrderCreated, Payload: testPayload})

	select {
	case msg := <-orders.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		if received.Type != EventOrderCreated {
			t.Errorf("expected type %q, got %q", EventOrderCreated, received.Type)
		}
		if string(received.Payload) != string(testPayload) {
			t.Errorf("expected payload '%s', got '%s'", testPayload, received.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("orders client did not receive message")
	}

	select {
	case <-other.send:
		t.Fatal("client on another topic should not receive the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastToMultipleClients(t *testing.T) {
	hub := startHub(t)

	clients := []*Client{
		mockClient(hub, TopicOrders),
		mockClient(hub, TopicOrders),
		mockClient(hub, TopicOrders),
	}
	for _, c := range clients {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	if err := hub.Publish(TopicOrders, EventOrderUpdated, map[string]string{"status": "ready"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for i, client := range clients {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client%d: failed to unmarshal: %v", i+1, err)
			}
			if received.Type != EventOrderUpdated {
				t.Errorf("client%d: expected type %q, got %q", i+1, EventOrderUpdated, received.Type)
			}
			if string(received.Payload) != `{"status":"ready"}` {
				t.Errorf("client%d: payload %s", i+1, received.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestPublishRejectsUnmarshalablePayload(t *testing.T) {
	hub := startHub(t)
	if err := hub.Publish(TopicOrders, EventOrderCreated, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestHubCleanupEmptyRoom(t *testing.T) {
	hub := startHub(t)
	client1 := mockClient(hub, TopicOrders)
	client2 := mockClient(hub, TopicOrders)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	if n := hub.Subscribers(TopicOrders); n != 2 {
		t.Fatalf("expected 2 clients, got %d", n)
	}

	hub.leave(client1)
	time.Sleep(10 * time.Millisecond)
	if n := hub.Subscribers(TopicOrders); n != 1 {
		t.Fatalf("expected 1 client after first unregister, got %d", n)
	}

	hub.leave(client2)
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms[TopicOrders] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
}

func TestHubStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	client := mockClient(hub, TopicOrders)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	cancel()

	select {
	case <-hub.done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("client send channel should be closed on shutdown")
	}

	// Must not block once the hub is gone.
	hub.Broadcast(TopicOrders, Event{Type: EventOrderCreated})
	hub.leave(client)
}
