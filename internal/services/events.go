package services

// Lifecycle event names emitted after successful writes. Every connected
// realtime session receives every event.
const (
	EventTaskCreated    = "taskCreated"
	EventTaskUpdated    = "taskUpdated"
	EventTaskDeleted    = "taskDeleted"
	EventProjectCreated = "projectCreated"
	EventProjectUpdated = "projectUpdated"
	EventProjectDeleted = "projectDeleted"
)

// EventPublisher broadcasts a lifecycle event to all connected sessions.
// Implementations must be fire-and-forget: publishing never fails the
// operation that triggered it.
type EventPublisher interface {
	Publish(event string, payload any)
}

// NopPublisher discards events. Used where no realtime layer is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) {}

// DeletedPayload is the broadcast body for delete events.
type DeletedPayload struct {
	ID uint `json:"id"`
}
