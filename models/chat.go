package models

import "time"

// Chat is a conversation between a project owner and a contractor,
// scoped to a single project.
type Chat struct {
	ChatID    string    `bson:"chatid" json:"chatid"`
	ProjectID string    `bson:"projectId" json:"projectId"`
	Users     []string  `bson:"users" json:"users"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type Message struct {
	MessageID string    `bson:"messageid" json:"messageid"`
	ChatID    string    `bson:"chatid" json:"chatid"`
	Sender    string    `bson:"sender" json:"sender"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ContactID string    `bson:"contactid" json:"contactid"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Subject   string    `bson:"subject,omitempty" json:"subject,omitempty"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Notification is a persisted domain event a user can poll for.
type Notification struct {
	NotificationID string    `bson:"notificationid" json:"notificationid"`
	UserID         string    `bson:"userid" json:"userid"`
	Event          string    `bson:"event" json:"event"`
	EntityType     string    `bson:"entityType" json:"entityType"`
	EntityID       string    `bson:"entityId" json:"entityId"`
	Text           string    `bson:"text" json:"text"`
	Read           bool      `bson:"read" json:"read"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
