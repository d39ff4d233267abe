// Package loading models the loading-screen overlay shown over the viewport until the intro
// animation finishes. Drawing lives in the scene package; this package only holds state.
package loading

import (
	"time"

	"rubik-viewer/internal/schedule"
)

// DefaultID is the identifier of the loading overlay.
const DefaultID = "loading-screen"

// Options controls the fade-out.
type Options struct {
	ID string
	// FadeOpacity is applied when hiding starts; the overlay disappears HideDelay later.
	FadeOpacity float32
	HideDelay   time.Duration
}

// DefaultOptions matches the viewer's stock look: dim to 0.3, then hide after 500ms.
func DefaultOptions() Options {
	return Options{ID: DefaultID, FadeOpacity: 0.3, HideDelay: 500 * time.Millisecond}
}

// Screen is the overlay state. Opacity is 1 while visible and loading.
type Screen struct {
	ID      string
	Opacity float32
	Visible bool
	// Err is set when the model failed to load; the overlay shows it as a banner.
	Err error

	opts   Options
	sched  *schedule.Scheduler
	hiding bool
}

// New returns a visible, fully opaque screen.
func New(opts Options, sched *schedule.Scheduler) *Screen {
	if opts.ID == "" {
		opts.ID = DefaultID
	}
	return &Screen{ID: opts.ID, Opacity: 1, Visible: true, opts: opts, sched: sched}
}

// Hiding reports whether Hide has been called.
func (s *Screen) Hiding() bool {
	return s.hiding
}

// Hide starts the fade-out. Only the first call has an effect.
func (s *Screen) Hide() {
	if s.hiding {
		return
	}
	s.hiding = true
	s.Opacity = s.opts.FadeOpacity
	if s.opts.HideDelay <= 0 || s.sched == nil {
		s.Visible = false
		return
	}
	s.sched.After(s.opts.HideDelay, func() {
		s.Visible = false
	})
}

// Fail records err for display and hides the screen; loading never blocks on failure.
func (s *Screen) Fail(err error) {
	s.Err = err
	s.Hide()
}
