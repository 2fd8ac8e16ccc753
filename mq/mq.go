package mq

import (
	"context"
	"encoding/json"
	"log"

	"farmfork/rdx"
)

const eventChannel = "farmfork-events"

// Event is one domain notification fanned out to live dashboard rooms.
type Event struct {
	Name     string          `json:"name"`     // e.g. "order-status-changed"
	Room     string          `json:"room"`     // live hub room, e.g. "farmer:u123"
	EntityID string          `json:"entityId"` // order / negotiation id
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Emit publishes an event to Redis. Failures are logged, never fatal;
// the HTTP request that triggered the event has already succeeded.
func Emit(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, eventChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", ev.Name, err)
	}
}

// StartEventWorker subscribes to the event channel and forwards each event
// to the supplied broadcast function (the live hub). Runs until the
// subscription closes.
func StartEventWorker(broadcast func(room string, data []byte)) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventChannel)
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for domain events...")

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[EventWorker] Failed to parse event: %v", err)
			continue
		}
		if ev.Room == "" {
			continue
		}
		broadcast(ev.Room, []byte(msg.Payload))
	}
}
