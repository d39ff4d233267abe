package loading

import (
	"errors"
	"testing"
	"time"

	"rubik-viewer/internal/schedule"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestHideFadesThenDisappears(t *testing.T) {
	sched := schedule.New(t0)
	s := New(DefaultOptions(), sched)
	if !s.Visible || s.Opacity != 1 || s.ID != DefaultID {
		t.Fatalf("initial screen = %+v", s)
	}
	s.Hide()
	if !s.Visible || s.Opacity != 0.3 {
		t.Fatalf("after Hide: visible=%v opacity=%v", s.Visible, s.Opacity)
	}
	sched.Advance(t0.Add(499 * time.Millisecond))
	if !s.Visible {
		t.Fatal("hidden before delay")
	}
	sched.Advance(t0.Add(500 * time.Millisecond))
	if s.Visible {
		t.Fatal("still visible after delay")
	}
}

func TestHideIsIdempotent(t *testing.T) {
	sched := schedule.New(t0)
	s := New(DefaultOptions(), sched)
	s.Hide()
	sched.Advance(t0.Add(300 * time.Millisecond))
	s.Hide()
	if sched.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", sched.Pending())
	}
	sched.Advance(t0.Add(500 * time.Millisecond))
	if s.Visible {
		t.Fatal("second Hide restarted the delay")
	}
}

func TestHideWithoutDelay(t *testing.T) {
	s := New(Options{FadeOpacity: 0}, nil)
	s.Hide()
	if s.Visible || s.ID != DefaultID {
		t.Fatalf("screen = %+v", s)
	}
}

func TestFailRecordsErrorAndHides(t *testing.T) {
	sched := schedule.New(t0)
	s := New(DefaultOptions(), sched)
	err := errors.New("boom")
	s.Fail(err)
	if !errors.Is(s.Err, err) || !s.Hiding() {
		t.Fatalf("screen = %+v", s)
	}
}
