package ws

import (
	"context"
	"encoding/json"
	"testing"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()

	c1 := NewClient(nil, hub)
	c2 := NewClient(nil, hub)
	hub.Register(c1)
	hub.Register(c2)
	if hub.ClientCount() != 2 {
		t.Fatalf("clients = %d, want 2", hub.ClientCount())
	}

	hub.TaskChanged(context.Background(), "task.created", "abc")

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Send:
			var ev TaskEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("bad event payload: %v", err)
			}
			if ev.Type != "task.created" || ev.TaskID != "abc" {
				t.Errorf("event = %+v", ev)
			}
		default:
			t.Fatal("client got no event")
		}
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()

	c := NewClient(nil, hub)
	hub.Register(c)

	// fill the send buffer, the next broadcast must evict instead of block
	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("x")
	}
	hub.TaskChanged(context.Background(), "task.updated", "abc")

	if hub.ClientCount() != 0 {
		t.Errorf("slow client not evicted, clients = %d", hub.ClientCount())
	}
}

func TestHubUnregisterTwice(t *testing.T) {
	hub := NewHub()
	c := NewClient(nil, hub)
	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c) // second call must be a no-op
	if hub.ClientCount() != 0 {
		t.Errorf("clients = %d", hub.ClientCount())
	}
}
