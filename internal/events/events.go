package events

import "time"

// Event types
const (
	UserCreated  = "user.created"
	UserVerified = "user.verified"
)

// UserEventsStream carries all account lifecycle events. Peer instances
// subscribe to it to keep their read models consistent.
const UserEventsStream = "user.events"

// Event is the envelope written to the stream. Origin identifies the
// publishing instance so subscribers can skip their own events.
type Event struct {
	Type      string    `json:"type"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserVerifiedEvent struct {
	UserID int64 `json:"userId"`
}
