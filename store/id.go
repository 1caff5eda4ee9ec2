package store

import "github.com/google/uuid"

// NewID returns a random identifier for a new thought.
func NewID() string {
	return uuid.NewString()
}
