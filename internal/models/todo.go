package models

import "time"

// Todo represents a todo item owned by a single user.
type Todo struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"userId" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Event actions carried by TodoEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TodoEvent is the message payload for Kafka, emitted after a write has been applied.
type TodoEvent struct {
	Action      string    `json:"action"`
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
