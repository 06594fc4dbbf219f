package chats

import (
	"encoding/json"
	"testing"
	"time"

	"mistri/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "chat1",
	}
	hub.register <- client

	msg := models.Message{MessageID: "m1", ChatID: "chat1", Sender: "u1", Text: "hello test"}
	data, _ := json.Marshal(msg)
	hub.Broadcast("chat1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubBroadcastOtherRoomNotDelivered(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "chat1",
	}
	hub.register <- client

	hub.Broadcast("chat2", []byte("elsewhere"))

	select {
	case got := <-client.Send:
		t.Fatalf("unexpected delivery: %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}
