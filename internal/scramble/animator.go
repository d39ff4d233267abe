// Package scramble plays the timed, cosmetic layer-turn animation shown while the model loads.
//
// The scramble window is split into equal phases. During each phase one subset of cubies
// (picked by a Selector) is turned about one axis by an angle that ramps linearly from 0 to
// 90 degrees. Membership is decided once when scrambling starts.
package scramble

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"rubik-viewer/internal/scenegraph"
)

// QuarterTurn is the angle a phase reaches at its end.
const QuarterTurn = math32.Pi / 2

// State is the animator's lifecycle position.
type State int

const (
	Idle State = iota
	Scrambling
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scrambling:
		return "scrambling"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Phase turns the cubies matched by Select about Axis. Sign is +1 or -1.
type Phase struct {
	Name   string
	Select Selector
	Axis   scenegraph.Axis
	Sign   float32
}

// Config parameterizes one playback.
type Config struct {
	Duration time.Duration
	Phases   []Phase
	// SpinRate is added to the whole cube's Y rotation on every scrambling tick. It compounds
	// for the whole window, so the total depends on the frame rate.
	SpinRate float32
}

// Animator drives the scramble for one cube. It is not safe for concurrent use; the frame
// loop owns it.
type Animator struct {
	cfg    Config
	cube   *scenegraph.Node
	cubies []*scenegraph.Node

	state   State
	start   time.Time
	members [][]*scenegraph.Node
	// base holds each member's rotation on the phase axis when its phase became active.
	base    [][]float32
	current int
	settled int

	initial mgl32.Vec3

	onPhase    []func(index int, p Phase, members int)
	onFinished []func()
}

// New returns an idle animator. cube may be nil, in which case no whole-cube spin is applied.
func New(cfg Config, cube *scenegraph.Node, cubies []*scenegraph.Node) *Animator {
	return &Animator{cfg: cfg, cube: cube, cubies: cubies, current: -1}
}

// State returns the current lifecycle state.
func (a *Animator) State() State {
	return a.state
}

// InitialRotation is the cube's rotation captured by Start. Informational only.
func (a *Animator) InitialRotation() mgl32.Vec3 {
	return a.initial
}

// Members returns the cubies selected for phase i. Valid after Start.
func (a *Animator) Members(i int) []*scenegraph.Node {
	if i < 0 || i >= len(a.members) {
		return nil
	}
	return a.members[i]
}

// OnPhase registers fn to run when a phase becomes active.
func (a *Animator) OnPhase(fn func(index int, p Phase, members int)) {
	a.onPhase = append(a.onPhase, fn)
}

// OnFinished registers fn to run once, on the transition to Finished.
func (a *Animator) OnFinished(fn func()) {
	a.onFinished = append(a.onFinished, fn)
}

// Start begins playback at now. It has no effect unless the animator is Idle.
func (a *Animator) Start(now time.Time) {
	if a.state != Idle {
		return
	}
	a.state = Scrambling
	a.start = now
	if a.cube != nil {
		a.initial = a.cube.Rotation
	}
	a.members = make([][]*scenegraph.Node, len(a.cfg.Phases))
	a.base = make([][]float32, len(a.cfg.Phases))
	for i, p := range a.cfg.Phases {
		if p.Select == nil {
			continue
		}
		for _, c := range a.cubies {
			if p.Select.Match(c) {
				a.members[i] = append(a.members[i], c)
			}
		}
	}
	if a.cfg.Duration <= 0 {
		a.Finish()
	}
}

// PhaseAngle maps elapsed time onto the active phase index and its ramped angle.
// done is true once elapsed reaches total; the returned index is then the phase count.
func PhaseAngle(elapsed, total time.Duration, phases int) (index int, angle float32, done bool) {
	if elapsed >= total {
		return phases, 0, true
	}
	if phases <= 0 {
		return 0, 0, false
	}
	if elapsed < 0 {
		elapsed = 0
	}
	phaseDuration := total / time.Duration(phases)
	if phaseDuration <= 0 {
		return phases, 0, true
	}
	index = int(elapsed / phaseDuration)
	if index >= phases {
		index = phases - 1
	}
	phaseElapsed := elapsed - time.Duration(index)*phaseDuration
	angle = float32(phaseElapsed.Seconds()/phaseDuration.Seconds()) * QuarterTurn
	return index, angle, false
}

// Step advances the animation to now. It does nothing unless Scrambling. When the deadline
// has passed the animator finishes without applying a ramped rotation on that tick; every
// phase, including any skipped by a long frame, is settled at its full quarter turn.
func (a *Animator) Step(now time.Time) {
	if a.state != Scrambling {
		return
	}
	index, angle, done := PhaseAngle(now.Sub(a.start), a.cfg.Duration, len(a.cfg.Phases))
	if done {
		if n := len(a.cfg.Phases); n > 0 {
			a.activate(n - 1)
		}
		a.Finish()
		return
	}
	if len(a.cfg.Phases) > 0 {
		a.activate(index)
		a.apply(index, angle)
	}
	if a.cube != nil {
		a.cube.Rotation[1] += a.cfg.SpinRate
	}
}

// Finish moves to Finished from any state. Phases that had started are settled at their
// end angle. Calling Finish more than once is safe.
func (a *Animator) Finish() {
	if a.state == Finished {
		return
	}
	wasRunning := a.state == Scrambling
	a.state = Finished
	if wasRunning {
		for a.settled <= a.current {
			a.apply(a.settled, QuarterTurn)
			a.settled++
		}
	}
	for _, fn := range a.onFinished {
		fn()
	}
}

// activate settles every phase before index and captures base rotations for index.
func (a *Animator) activate(index int) {
	for a.current < index {
		if a.current >= 0 && a.settled <= a.current {
			a.apply(a.current, QuarterTurn)
			a.settled = a.current + 1
		}
		a.current++
		p := a.cfg.Phases[a.current]
		base := make([]float32, len(a.members[a.current]))
		for i, c := range a.members[a.current] {
			base[i] = c.Rotation[p.Axis]
		}
		a.base[a.current] = base
		for _, fn := range a.onPhase {
			fn(a.current, p, len(a.members[a.current]))
		}
	}
}

func (a *Animator) apply(index int, angle float32) {
	p := a.cfg.Phases[index]
	sign := p.Sign
	if sign == 0 {
		sign = 1
	}
	for i, c := range a.members[index] {
		c.Rotation[p.Axis] = a.base[index][i] + sign*angle
	}
}
