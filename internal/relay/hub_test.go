package relay

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRelaySkipsStalledClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	fast := hub.register()
	stalled := hub.register()

	for i := 0; i < sendBuffer; i++ {
		stalled.send <- []byte("backlog")
	}

	done := make(chan struct{})
	go func() {
		hub.relay(Broadcast{Payload: []byte("Bob: yo"), Sender: fast.id})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay blocked on a stalled client")
	}

	select {
	case got := <-fast.send:
		if string(got) != "Bob: yo" {
			t.Fatalf("expected %q, got %q", "Bob: yo", got)
		}
	default:
		t.Fatal("expected frame queued for the fast client")
	}

	if hub.Len() != 1 {
		t.Fatalf("expected stalled client dropped, have %d clients", hub.Len())
	}
	for range stalled.send {
	}

	// a new client can still register
	hub.register()
	if hub.Len() != 2 {
		t.Fatalf("expected 2 clients, have %d", hub.Len())
	}
}

func TestRemoveClosesQueueOnce(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := hub.register()

	hub.remove(c.id)
	hub.remove(c.id)

	if _, ok := <-c.send; ok {
		t.Fatal("expected closed queue")
	}
	if hub.Len() != 0 {
		t.Fatalf("expected no clients, have %d", hub.Len())
	}
}

func TestCloseAllDropsEveryClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a, b := hub.register(), hub.register()

	hub.closeAll()

	for _, c := range []*client{a, b} {
		if _, ok := <-c.send; ok {
			t.Fatalf("expected queue of %s closed", c.id)
		}
	}
	if hub.Len() != 0 {
		t.Fatalf("expected no clients, have %d", hub.Len())
	}
}
