package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackwu/passingthoughts/metrics"
	"github.com/jackwu/passingthoughts/model"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestStore(t *testing.T) (*Store, clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(epoch)
	return New(fc, DefaultTTL, WithIDFunc(seqIDs())), fc
}

func texts(ts []model.Thought) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Text)
	}
	return out
}

func TestAdd_PrependsWithExpiration(t *testing.T) {
	s, _ := newTestStore(t)

	first, ok := s.Add("first")
	require.True(t, ok)
	second, ok := s.Add("second")
	require.True(t, ok)

	assert.Equal(t, []string{"second", "first"}, texts(s.List()))
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, "t2", second.ID)
	assert.Equal(t, epoch.Add(15*time.Second), first.ExpiresAt)
}

func TestAdd_IgnoresBlankText(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("keep")

	for _, in := range []string{"", " ", "\t\n  "} {
		_, ok := s.Add(in)
		assert.False(t, ok, "input %q", in)
	}
	assert.Equal(t, 1, s.Len())
}

func TestAdd_KeepsTextVerbatim(t *testing.T) {
	s, _ := newTestStore(t)
	th, ok := s.Add("  padded  ")
	require.True(t, ok)
	assert.Equal(t, "  padded  ", th.Text)
}

func TestRemove_OnlyMatchingThought(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")
	b, _ := s.Add("b")
	s.Add("c")

	require.True(t, s.Remove(b.ID))
	assert.Equal(t, []string{"c", "a"}, texts(s.List()))
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")
	s.Add("b")
	before := s.List()

	assert.False(t, s.Remove("missing"))
	assert.Equal(t, before, s.List())
}

func TestRemove_Twice(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a")

	assert.True(t, s.Remove(a.ID))
	assert.False(t, s.Remove(a.ID))
	assert.Zero(t, s.Len())
}

func TestSweep_RemovesExpiredInclusive(t *testing.T) {
	s, fc := newTestStore(t)
	s.Add("old")
	fc.Advance(5 * time.Second)
	s.Add("young")

	assert.Empty(t, s.Sweep(fc.Now()))
	assert.Equal(t, 2, s.Len())

	// exactly at expiry of "old"
	fc.Advance(10 * time.Second)
	expired := s.Sweep(fc.Now())
	assert.Equal(t, []string{"old"}, texts(expired))
	assert.Equal(t, []string{"young"}, texts(s.List()))

	fc.Advance(5 * time.Second)
	assert.Equal(t, []string{"young"}, texts(s.Sweep(fc.Now())))
	assert.Zero(t, s.Len())
}

func TestSweep_EqualExpirationsGoTogether(t *testing.T) {
	s, fc := newTestStore(t)
	s.Seed("one", "two", "three")

	fc.Advance(DefaultTTL)
	assert.Len(t, s.Sweep(fc.Now()), 3)
	assert.Zero(t, s.Len())
}

func TestSweep_PreservesOrderOfSurvivors(t *testing.T) {
	s, fc := newTestStore(t)
	s.Add("a")
	fc.Advance(time.Second)
	s.Add("b")
	s.Add("c")
	fc.Advance(DefaultTTL - time.Second)

	s.Sweep(fc.Now())
	assert.Equal(t, []string{"c", "b"}, texts(s.List()))
}

func TestSeed_KeepsGivenOrder(t *testing.T) {
	s, _ := newTestStore(t)
	s.Seed("first", "", "second")
	s.Add("newest")

	assert.Equal(t, []string{"newest", "first", "second"}, texts(s.List()))
}

func TestList_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")

	l := s.List()
	l[0].Text = "mutated"
	assert.Equal(t, "a", s.List()[0].Text)
}

func TestNew_DefaultTTL(t *testing.T) {
	s := New(clockwork.NewFakeClock(), 0)
	assert.Equal(t, DefaultTTL, s.TTL())
}

func TestStore_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	fc := clockwork.NewFakeClockAt(epoch)
	s := New(fc, DefaultTTL, WithMetrics(metrics.New(reg)))

	s.Seed("x", "y")
	a, _ := s.Add("a")
	s.Remove(a.ID)
	fc.Advance(DefaultTTL)
	s.Sweep(fc.Now())

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n) // added, active, removed{manual}, removed{expired}
}
