package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func TestNewMessageType(t *testing.T) {
	msg := NewMessage("food", "created", "abc", nil)
	if msg.Type != "food_created" {
		t.Errorf("Type = %q, want food_created", msg.Type)
	}
	if msg.ID != "abc" {
		t.Errorf("ID = %q, want abc", msg.ID)
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := testHub()
	c := NewClient(hub, nil)

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}

	// Unregistering twice is a no-op
	hub.Unregister(c)
}

func TestHubBroadcast(t *testing.T) {
	hub := testHub()
	c := NewClient(hub, nil)
	hub.Register(c)

	hub.Broadcast(NewMessage("food", "counted", "abc", map[string]any{"delta": 1}))

	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Type != "food_counted" || msg.ID != "abc" {
			t.Errorf("got %+v", msg)
		}
	default:
		t.Fatal("expected broadcast in send buffer")
	}
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	hub := testHub()
	c := NewClient(hub, nil)
	hub.Register(c)

	// Fill the buffer past capacity; Broadcast must never block.
	for i := 0; i < sendBufferSize+5; i++ {
		hub.Broadcast(NewMessage("food", "created", "x", nil))
	}

	if len(c.send) != sendBufferSize {
		t.Errorf("buffered = %d, want %d", len(c.send), sendBufferSize)
	}
}
