package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (h *Hub) hasClient(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func TestHubDropsStalledClientExactlyOnce(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- client
	waitFor(t, "client registration", func() bool { return hub.hasClient(userID) })

	frame := Frame{Type: "chat_chunk", Data: "chunk"}
	hub.Send(userID, frame) // fills the one-slot buffer
	hub.Send(userID, frame) // overflows: the hub must drop the client

	waitFor(t, "stalled client removal", func() bool { return !hub.hasClient(userID) })

	// The buffered frame is still readable, then the channel is closed —
	// once, by Run, not by the delivery path.
	if _, ok := <-client.Send; !ok {
		t.Fatal("buffered frame lost before close")
	}
	if _, ok := <-client.Send; ok {
		t.Fatal("Send channel not closed after drop")
	}

	// Delivery to the departed client is a no-op.
	hub.Send(userID, frame)

	// The connection teardown path unregisters again; the hub must survive
	// the duplicate without closing a second time.
	hub.unregister <- client

	other := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- other
	waitFor(t, "hub loop alive after duplicate unregister", func() bool { return hub.hasClient(other.UserID) })
}

func TestHubDeliversToEveryDevice(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userID := uuid.New()
	a := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b
	waitFor(t, "both devices registered", func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[userID]) == 2
	})

	hub.Send(userID, Frame{Type: "chat_turn", Data: "done"})

	for _, c := range []*Client{a, b} {
		select {
		case <-c.Send:
		case <-time.After(time.Second):
			t.Fatal("device did not receive the frame")
		}
	}
}
