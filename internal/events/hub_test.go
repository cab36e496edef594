package events

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	ln, err := Serve("127.0.0.1:0", hub)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	defer ln.Close()

	url := "ws://" + ln.Addr().String() + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration races the dial returning; retry the publish briefly.
	want := Event{Type: "progress", Received: 500, Total: 1000, Percent: 50}
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)

	var got Event
	done := make(chan error, 1)
	go func() { done <- conn.ReadJSON(&got) }()
	for {
		hub.Publish(want)
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			if got.Type != "progress" || got.Percent != 50 || got.Received != 500 {
				t.Errorf("got %+v", got)
			}
			if got.At.IsZero() {
				t.Error("Publish must stamp At")
			}
			return
		case <-time.After(50 * time.Millisecond):
			if time.Now().After(deadline) {
				t.Fatal("no event received")
			}
		}
	}
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.Publish(Event{Type: "state", State: "downloading"})
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	hub := NewHub()
	ln, err := Serve("127.0.0.1:0", hub)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	defer ln.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/events", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()

	// Publishing after the peer closed must not panic; the hub sheds the
	// dead connection on write or read failure.
	for i := 0; i < 3; i++ {
		hub.Publish(Event{Type: "state", State: "applying"})
		time.Sleep(20 * time.Millisecond)
	}
}
