package interfaces

// EventPublisher broadcasts domain events after a mutation has committed.
// Publish failures are reported to the caller but never undo the mutation.
type EventPublisher interface {
	Publish(topic string, event any) error
}
