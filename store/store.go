// Package store owns the list of live thoughts and the rules for creating and
// expiring them.
package store

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/jackwu/passingthoughts/metrics"
	"github.com/jackwu/passingthoughts/model"
)

// Store holds thoughts newest first. It is not safe for concurrent use; all
// calls are expected to come from the single UI update loop.
type Store struct {
	thoughts []model.Thought
	clock    clockwork.Clock
	ttl      time.Duration
	newID    func() string
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the identifier generator.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithLogger sets the logger used for list changes.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithMetrics records list changes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New returns an empty store whose thoughts live for ttl.
func New(clock clockwork.Clock, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		clock: clock,
		ttl:   ttl,
		newID: NewID,
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TTL returns the lifetime given to new thoughts.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Add creates a thought from text and puts it at the head of the list.
// Blank text is ignored and reported with ok == false.
func (s *Store) Add(text string) (t model.Thought, ok bool) {
	if strings.TrimSpace(text) == "" {
		return model.Thought{}, false
	}
	t = s.newThought(text)
	s.thoughts = append([]model.Thought{t}, s.thoughts...)

	s.log.Debug().Str("id", t.ID).Time("expires_at", t.ExpiresAt).Msg("thought added")
	s.metrics.Added(1, len(s.thoughts))
	return t, true
}

// Seed appends thoughts in the given order, so the first text is shown first.
// Blank texts are skipped.
func (s *Store) Seed(texts ...string) {
	n := 0
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		s.thoughts = append(s.thoughts, s.newThought(text))
		n++
	}
	if n == 0 {
		return
	}
	s.log.Debug().Int("count", n).Msg("thoughts seeded")
	s.metrics.Added(n, len(s.thoughts))
}

// Remove deletes the thought with id. It reports whether anything was removed;
// an unknown id is not an error since the thought may already have expired.
func (s *Store) Remove(id string) bool {
	for i, t := range s.thoughts {
		if t.ID != id {
			continue
		}
		s.thoughts = append(s.thoughts[:i:i], s.thoughts[i+1:]...)
		s.log.Debug().Str("id", id).Msg("thought removed")
		s.metrics.Removed(metrics.ReasonManual, 1, len(s.thoughts))
		return true
	}
	return false
}

// Sweep drops every thought that has expired at now and returns them.
// The list is replaced in one step, so readers never see a partial sweep.
func (s *Store) Sweep(now time.Time) []model.Thought {
	var kept, expired []model.Thought
	for _, t := range s.thoughts {
		if t.Expired(now) {
			expired = append(expired, t)
			continue
		}
		kept = append(kept, t)
	}
	if len(expired) == 0 {
		return nil
	}
	s.thoughts = kept

	s.log.Debug().Int("expired", len(expired)).Int("remaining", len(kept)).Msg("sweep")
	s.metrics.Removed(metrics.ReasonExpired, len(expired), len(kept))
	return expired
}

// List returns a copy of the thoughts, newest first.
func (s *Store) List() []model.Thought {
	out := make([]model.Thought, len(s.thoughts))
	copy(out, s.thoughts)
	return out
}

// Len returns the number of thoughts in the list.
func (s *Store) Len() int {
	return len(s.thoughts)
}

func (s *Store) newThought(text string) model.Thought {
	return model.Thought{
		ID:        s.newID(),
		Text:      text,
		ExpiresAt: ExpiresAt(s.clock, s.ttl),
	}
}
