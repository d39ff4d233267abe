// Package session owns one run of the viewer: the async model load, the idle spin, the
// scramble intro and the loading overlay. It holds no GL state and is driven entirely by
// Update, so the whole sequence can be tested with a synthetic clock.
package session

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"rubik-viewer/internal/asset"
	"rubik-viewer/internal/config"
	"rubik-viewer/internal/cubie"
	"rubik-viewer/internal/loading"
	"rubik-viewer/internal/logger"
	"rubik-viewer/internal/schedule"
	"rubik-viewer/internal/scenegraph"
	"rubik-viewer/internal/scramble"
)

// Phase is the session lifecycle.
type Phase int

const (
	// Loading lasts from Begin until the intro finishes or the load fails.
	Loading Phase = iota
	// Ready means the intro is over; nothing moves the cube except the user's camera.
	Ready
	// Failed means the model could not be loaded.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Viewport is the drawable size. raylib derives the projection aspect from the render
// size inside BeginMode3D, so listeners only need it for screen-space input scaling.
type Viewport struct {
	Width, Height int
	Aspect        float32
}

// Session is not safe for concurrent use; only the frame loop calls it.
type Session struct {
	Preset config.Preset
	// Loading is the overlay state the renderer draws.
	Loading *loading.Screen
	// Cube is the loaded scene root, nil until the load completes.
	Cube *scenegraph.Node
	// Cubies is the extracted cubie list, fixed once the load completes.
	Cubies []*scenegraph.Node

	log      *logger.Logger
	sched    *schedule.Scheduler
	animator *scramble.Animator
	phase    Phase
	results  <-chan asset.Result
	cancel   context.CancelFunc
	closed   bool

	onLoaded []func(cube *scenegraph.Node)
	onResize []func(v Viewport)
}

// New returns a session for preset p with its clock at now. log may be nil.
func New(p config.Preset, log *logger.Logger, now time.Time) *Session {
	if log == nil {
		log = logger.New("")
	}
	sched := schedule.New(now)
	return &Session{
		Preset:   p,
		Loading:  loading.New(p.LoadingOptions(), sched),
		log:      log,
		sched:    sched,
	}
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// State returns the scramble state; Idle until the model has loaded.
func (s *Session) State() scramble.State {
	if s.animator == nil {
		return scramble.Idle
	}
	return s.animator.State()
}

// Animator returns the scramble animator, nil until the model has loaded.
func (s *Session) Animator() *scramble.Animator {
	return s.animator
}

// Scheduler exposes the session clock for collaborators that need timers tied to it.
func (s *Session) Scheduler() *schedule.Scheduler {
	return s.sched
}

// OnLoaded registers fn to run on the frame the model arrives, before any animation.
func (s *Session) OnLoaded(fn func(cube *scenegraph.Node)) {
	s.onLoaded = append(s.onLoaded, fn)
}

// OnResize registers fn to run whenever Resize receives a usable size.
func (s *Session) OnResize(fn func(v Viewport)) {
	s.onResize = append(s.onResize, fn)
}

// Begin starts loading src with l. Only the first call has an effect.
func (s *Session) Begin(ctx context.Context, l asset.Loader, src string) {
	if s.results != nil || s.phase != Loading || s.Cube != nil || s.closed {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.log.Infof("loading model %s (preset %s)", src, s.Preset.Name)
	s.results = asset.Async(ctx, l, src)
}

// Update advances the session to now. Call once per frame. The clock moves before the
// loader is polled, so the post-load delay is measured from the frame the model arrives on.
func (s *Session) Update(now time.Time) {
	if s.closed {
		return
	}
	s.sched.Advance(now)
	s.poll()
	switch {
	case s.animator != nil && s.animator.State() == scramble.Scrambling:
		s.animator.Step(now)
	case s.phase == Loading && s.Cube != nil:
		s.Cube.Rotation[1] += s.Preset.Spin.Idle
	}
}

func (s *Session) poll() {
	if s.results == nil {
		return
	}
	select {
	case r := <-s.results:
		s.deliver(r)
	default:
	}
}

func (s *Session) deliver(r asset.Result) {
	s.results = nil
	if r.Err != nil {
		s.fail(r.Err)
		return
	}
	s.loaded(r.Root)
}

func (s *Session) fail(err error) {
	s.log.Errorf("model load failed: %v", err)
	s.phase = Failed
	s.Loading.Fail(err)
}

func (s *Session) loaded(root *scenegraph.Node) {
	cube := s.Preset.Cube
	root.Scale = mgl32.Vec3{cube.Scale, cube.Scale, cube.Scale}
	root.Translation = mgl32.Vec3(cube.Position)
	s.Cube = root
	s.Cubies = cubie.Extract(root)

	b := cubie.Count(s.Cubies)
	s.log.Infof("model loaded: %d cubies (%s)", len(s.Cubies), b)
	for _, c := range s.Cubies {
		s.log.Infof("cubie %s", cubie.Describe(c))
	}
	if len(s.Cubies) == 0 {
		s.log.Warnf("no named mesh nodes found; scramble will not move anything")
	}

	cfg, err := s.Preset.Scramble()
	if err != nil {
		s.fail(err)
		return
	}
	s.animator = scramble.New(cfg, s.Cube, s.Cubies)
	s.animator.OnPhase(func(i int, p scramble.Phase, members int) {
		s.log.Infof("scramble phase %d %s: %d cubies about %s", i, p.Name, members, p.Axis)
	})
	s.animator.OnFinished(s.finished)
	for _, fn := range s.onLoaded {
		fn(root)
	}
	s.sched.After(s.Preset.Timing.PostLoadDelay, func() {
		s.log.Infof("scramble started")
		s.animator.Start(s.sched.Now())
	})
}

func (s *Session) finished() {
	s.log.Infof("scramble finished")
	if s.phase == Loading {
		s.phase = Ready
	}
	s.Loading.Hide()
}

// Resize passes a new viewport size to the OnResize listeners. It never touches the cube or
// the animation. Non-positive sizes (a minimised window) are ignored.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v := Viewport{Width: width, Height: height, Aspect: float32(width) / float32(height)}
	for _, fn := range s.onResize {
		fn(v)
	}
}

// Close cancels the load and every pending timer. The session is inert afterwards.
func (s *Session) Close() {
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.sched.CancelAll()
}
