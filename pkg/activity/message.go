// Package activity defines the messages published on the activity queue
// after registration state changes commit.
package activity

import "time"

type Type string

const (
	EventCreated          Type = "event.created"
	RegistrationCreated   Type = "registration.created"
	RegistrationCancelled Type = "registration.cancelled"
)

// Message is the JSON payload put on the RabbitMQ activity queue.
// UserID is zero for event.created.
type Message struct {
	Type       Type      `json:"type"`
	EventID    int64     `json:"event_id"`
	UserID     int64     `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Valid reports whether the message carries enough to act on.
func (m Message) Valid() bool {
	switch m.Type {
	case EventCreated:
		return m.EventID > 0
	case RegistrationCreated, RegistrationCancelled:
		return m.EventID > 0 && m.UserID > 0
	}
	return false
}
