// Package sweeper drives periodic expiration checks.
package sweeper

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultInterval is how often expired thoughts are looked for.
const DefaultInterval = time.Second

// Sweeper ticks on a fixed interval and hands the current time to a callback.
// It does not touch the thought list itself; the callback forwards the tick to
// whoever owns the list.
type Sweeper struct {
	clock    clockwork.Clock
	interval time.Duration
	log      zerolog.Logger
}

// New constructs a Sweeper. A non-positive interval falls back to DefaultInterval.
func New(clock clockwork.Clock, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{clock: clock, interval: interval, log: log}
}

// Interval returns the tick period.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Run calls emit with the current time on every tick until ctx is cancelled.
// The ticker is released before Run returns.
func (s *Sweeper) Run(ctx context.Context, emit func(now time.Time)) error {
	s.log.Debug().Dur("interval", s.interval).Msg("sweeper starting")
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("sweeper stopping")
			return ctx.Err()
		case <-ticker.Chan():
			emit(s.clock.Now())
		}
	}
}
