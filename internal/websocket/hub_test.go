package assistantws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

func receive(t *testing.T, client *Client) *Message {
	t.Helper()
	select {
	case payload := <-client.send:
		var message Message
		if err := json.Unmarshal(payload, &message); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		return &message
	case <-time.After(time.Second):
		t.Fatalf("Expected a delivery")
		return nil
	}
}

func TestPublishReachesAllUserConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	first := NewClient(hub, nil, userID.String())
	second := NewClient(hub, nil, userID.String())
	hub.Register(first)
	hub.Register(second)

	hub.Publish(userID, &models.ChatMessage{
		ID:      uuid.New(),
		ChatID:  uuid.New(),
		Sender:  models.SenderAI,
		Content: "Please rest and stay hydrated.",
	})

	for _, client := range []*Client{first, second} {
		message := receive(t, client)
		if message.Type != "message" || message.Content != "Please rest and stay hydrated." {
			t.Errorf("Unexpected delivery: %+v", message)
		}
	}
}

func TestErrorDeliveryTargetsOneConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.NewString()
	first := NewClient(hub, nil, userID)
	second := NewClient(hub, nil, userID)
	hub.Register(first)
	hub.Register(second)

	writeError(first, "invalid chat id")

	message := receive(t, first)
	if message.Type != "error" || message.Content != "invalid chat id" {
		t.Errorf("Unexpected error delivery: %+v", message)
	}

	select {
	case payload := <-second.send:
		t.Fatalf("Expected no delivery to the other connection, got %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestErrorDeliveryAfterUnregisterIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, uuid.NewString())
	hub.Register(client)
	hub.Unregister(client)

	writeError(client, "invalid message payload")

	select {
	case payload, ok := <-client.send:
		if ok {
			t.Fatalf("Expected a closed send channel, got %s", payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected the send channel to be closed")
	}
}
