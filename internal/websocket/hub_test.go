package websocket

import (
	"testing"
	"time"
)

func recvOrTimeout(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a broadcast")
		return nil
	}
}

func TestHubBroadcastReachesOnlyItsGame(t *testing.T) {
	h := NewHub()
	go h.Run()

	watcherA := &Client{GameID: "game-a", Send: make(chan []byte, 4)}
	watcherA2 := &Client{GameID: "game-a", Send: make(chan []byte, 4)}
	watcherB := &Client{GameID: "game-b", Send: make(chan []byte, 4)}
	h.Register(watcherA)
	h.Register(watcherA2)
	h.Register(watcherB)

	h.BroadcastToGame("game-a", []byte(`{"quarter":1}`))

	if got := string(recvOrTimeout(t, watcherA.Send)); got != `{"quarter":1}` {
		t.Fatalf("watcher A got %q", got)
	}
	if got := string(recvOrTimeout(t, watcherA2.Send)); got != `{"quarter":1}` {
		t.Fatalf("watcher A2 got %q", got)
	}
	select {
	case data := <-watcherB.Send:
		t.Fatalf("watcher of game-b received %q", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &Client{GameID: "game-a", Send: make(chan []byte, 4)}
	h.Register(c)
	h.Unregister(c)

	select {
	case _, open := <-c.Send:
		if open {
			t.Fatal("expected Send to be closed, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("Send was not closed after Unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub()
	go h.Run()

	// Unbuffered Send with nobody draining it: the first broadcast can't be
	// delivered and the hub must cut the client loose instead of stalling.
	slow := &Client{GameID: "game-a", Send: make(chan []byte)}
	h.Register(slow)

	h.BroadcastToGame("game-a", []byte("update"))

	select {
	case _, open := <-slow.Send:
		if open {
			t.Fatal("slow client should have been dropped, not delivered to")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client's Send was never closed")
	}
}
