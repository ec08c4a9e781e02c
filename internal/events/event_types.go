package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventGuestConfirmed fires after a confirmation is durably persisted.
	EventGuestConfirmed EventType = "guest_confirmed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GuestConfirmedPayload payload.
type GuestConfirmedPayload struct {
	GuestID     int64     `json:"guest_id"`
	Name        string    `json:"name"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
