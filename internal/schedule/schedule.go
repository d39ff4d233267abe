// Package schedule runs one-shot callbacks against the frame clock. Timers fire from Advance,
// on the caller's goroutine, so callbacks may touch frame-loop state without locking.
package schedule

import (
	"sort"
	"time"
)

// Timer is a pending one-shot callback.
type Timer struct {
	due     time.Time
	fn      func()
	seq     uint64
	stopped bool
	fired   bool
}

// Stop cancels the timer. It reports whether the call prevented the callback from running.
func (t *Timer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Scheduler holds pending timers. The zero value is not usable; call New.
type Scheduler struct {
	now     time.Time
	pending []*Timer
	seq     uint64
	closed  bool
}

// New returns a scheduler whose clock starts at now.
func New(now time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// Now returns the time of the last Advance (or New).
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After schedules fn to run on the first Advance at or past Now()+d.
// After a CancelAll the returned timer is already stopped.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	s.seq++
	t := &Timer{due: s.now.Add(d), fn: fn, seq: s.seq}
	if s.closed {
		t.stopped = true
		return t
	}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock to now and runs every due timer in due order. Timers scheduled by
// a callback run on a later Advance even if already due.
func (s *Scheduler) Advance(now time.Time) {
	if now.After(s.now) {
		s.now = now
	}
	var due, keep []*Timer
	for _, t := range s.pending {
		switch {
		case t.stopped:
		case !t.due.After(s.now):
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	s.pending = keep
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		if t.stopped {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// CancelAll stops every pending timer and rejects new ones. Used on session teardown.
func (s *Scheduler) CancelAll() {
	for _, t := range s.pending {
		t.stopped = true
	}
	s.pending = nil
	s.closed = true
}
