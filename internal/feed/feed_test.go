package feed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"

	"gamelib-service/internal/app/library"
)

func TestBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub(nil)
	_, first := hub.register()
	_, second := hub.register()

	hub.LibraryChanged(library.ChangeEvent{Type: library.EventGameCreated, GameID: "g1", At: "2024-03-08T12:00:00Z"})

	for _, send := range []chan []byte{first, second} {
		select {
		case raw := <-send:
			var event library.ChangeEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			if event.Type != library.EventGameCreated || event.GameID != "g1" {
				t.Fatalf("unexpected event: %+v", event)
			}
		default:
			t.Fatalf("expected a queued event")
		}
	}
}

func TestSlowClientDropsEvents(t *testing.T) {
	hub := NewHub(nil)
	_, send := hub.register()

	for i := 0; i < sendBuffer+5; i++ {
		hub.LibraryChanged(library.ChangeEvent{Type: library.EventPlayLogAdded})
	}
	if got := len(send); got != sendBuffer {
		t.Fatalf("expected queue capped at %d, got %d", sendBuffer, got)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	id, send := hub.register()
	hub.unregister(id)

	hub.LibraryChanged(library.ChangeEvent{Type: library.EventGameDeleted})
	if len(send) != 0 {
		t.Fatalf("expected no events after unregister")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// The subscription is registered by the handler goroutine; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.LibraryChanged(library.ChangeEvent{Type: library.EventLibraryReplaced, At: "2024-03-08T12:00:00Z"})

	_, raw, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event library.ChangeEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Type != library.EventLibraryReplaced {
		t.Fatalf("unexpected event type %q", event.Type)
	}
}
