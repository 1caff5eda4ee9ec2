package model

import "time"

// Thought is a short note that disappears once ExpiresAt has passed.
type Thought struct {
	ID        string
	Text      string
	ExpiresAt time.Time
}

// Expired reports whether the thought is due for removal at now.
func (t Thought) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Remaining returns how long the thought has left at now, never negative.
func (t Thought) Remaining(now time.Time) time.Duration {
	d := t.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
