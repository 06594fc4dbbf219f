package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mistri/db"
	"mistri/models"
	"mistri/rdx"
	"mistri/utils"
)

const eventsChannel = "marketplace-events"

// Event names emitted by the project and bid workflows.
const (
	ProjectCreated   = "project.created"
	ProjectCompleted = "project.completed"
	BidSubmitted     = "bid.submitted"
	BidAccepted      = "bid.accepted"
	BidRejected      = "bid.rejected"
)

// Event is a domain event published after a successful workflow
// operation. UserID is the user the resulting notification is for.
type Event struct {
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	UserID     string `json:"user_id"`
}

// Emit publishes the event to Redis. Delivery is best effort; workflow
// results never depend on it.
func Emit(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, eventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartNotificationWorker consumes published events and persists them
// as notifications for the UI to poll.
func StartNotificationWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventsChannel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for marketplace events...")

	for msg := range ch {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[NotificationWorker] Failed to parse event: %v", err)
			continue
		}
		if event.UserID == "" {
			continue
		}

		n := models.Notification{
			NotificationID: "n-" + utils.GenerateRandomString(12),
			UserID:         event.UserID,
			Event:          event.Name,
			EntityType:     event.EntityType,
			EntityID:       event.EntityID,
			Text:           notificationText(event),
			CreatedAt:      time.Now(),
		}
		if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
			log.Printf("[NotificationWorker] Insert error: %v", err)
		}
	}
}

func notificationText(event Event) string {
	switch event.Name {
	case ProjectCreated:
		return "Your project was posted."
	case ProjectCompleted:
		return "A project you worked on was marked completed."
	case BidSubmitted:
		return "Your bid was submitted."
	case BidAccepted:
		return "Congratulations, your bid was accepted!"
	case BidRejected:
		return "Your bid was not selected."
	default:
		return "You have a new update."
	}
}
