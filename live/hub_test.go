package live

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "farmer:u1",
	}

	hub.register <- client

	data := []byte(`{"name":"order-created","room":"farmer:u1"}`)
	hub.Broadcast("farmer:u1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.Unregister(client)
}

func TestHubBroadcastIsRoomScoped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	inRoom := &Client{Send: make(chan []byte, 10), Room: "order:o1"}
	otherRoom := &Client{Send: make(chan []byte, 10), Room: "order:o2"}
	hub.register <- inRoom
	hub.register <- otherRoom

	hub.Broadcast("order:o1", []byte("update"))

	select {
	case <-inRoom.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case msg := <-otherRoom.Send:
		t.Fatalf("unexpected message in other room: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnregisterReturnsAfterStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 10), Room: "order:o1"}
	hub.register <- client

	hub.Stop()

	returned := make(chan struct{})
	go func() {
		hub.Unregister(client)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(1 * time.Second):
		t.Fatal("unregister blocked after hub stop")
	}
}
