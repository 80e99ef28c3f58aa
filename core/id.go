package core

import "github.com/google/uuid"

// NewID generates a time-ordered unique identifier for requests and events.
//
// UUIDv7 keeps identifiers sortable by creation time which makes request logs
// and session histories naturally ordered. Falls back to a random UUID in the
// unlikely case the clock sequence cannot be read.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
