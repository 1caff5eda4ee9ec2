package store

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL is how long a thought stays visible unless removed by hand.
const DefaultTTL = 15 * time.Second

// ExpiresAt returns the point in time a thought created now should disappear.
func ExpiresAt(clock clockwork.Clock, ttl time.Duration) time.Time {
	return clock.Now().Add(ttl)
}
