package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"rubik-viewer/internal/asset"
	"rubik-viewer/internal/config"
	"rubik-viewer/internal/logger"
	"rubik-viewer/internal/scenegraph"
	"rubik-viewer/internal/scramble"
)

const tol = 1e-4

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

// cubeModel returns a scene root with 27 cubies: 9 "cube_b*" on x=-1, 9 "cube_g*" on x=+1
// and 9 "cube_w*" in the middle slice.
func cubeModel() *scenegraph.Node {
	root := scenegraph.NewNode(asset.RootName)
	body := scenegraph.NewNode("cube")
	root.AddChild(body)
	for i := 0; i < 27; i++ {
		x, y, z := i%3-1, i/3%3-1, i/9-1
		prefix := map[int]string{-1: "cube_b", 0: "cube_w", 1: "cube_g"}[x]
		c := scenegraph.NewNode(fmt.Sprintf("%s%d", prefix, i))
		c.Mesh = &scenegraph.Mesh{Bounds: scenegraph.AABB{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}}
		c.Translation = mgl32.Vec3{float32(x), float32(y), float32(z)}
		body.AddChild(c)
	}
	return root
}

func modelLoader(root *scenegraph.Node) asset.Loader {
	return asset.LoaderFunc(func(ctx context.Context, src string) (*scenegraph.Node, error) {
		return root, nil
	})
}

func preset(t *testing.T, name string) config.Preset {
	t.Helper()
	p, err := config.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// begin starts a session and waits for the loader goroutine to deliver.
func begin(t *testing.T, s *Session, l asset.Loader) {
	t.Helper()
	s.Begin(context.Background(), l, "test.glb")
	select {
	case r := <-s.results:
		s.deliver(r)
	case <-time.After(2 * time.Second):
		t.Fatal("loader did not deliver")
	}
}

func rotations(s *Session, prefix string, axis scenegraph.Axis) []float32 {
	var out []float32
	for _, c := range s.Cubies {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c.Rotation[axis])
		}
	}
	return out
}

func allNear(vals []float32, want float32) bool {
	for _, v := range vals {
		if math32.Abs(v-want) > tol {
			return false
		}
	}
	return len(vals) > 0
}

func TestPhasedIntro(t *testing.T) {
	s := New(preset(t, "phased"), logger.New(""), t0)
	begin(t, s, modelLoader(cubeModel()))
	if len(s.Cubies) != 27 {
		t.Fatalf("cubies = %d", len(s.Cubies))
	}
	if s.Cube.Scale != (mgl32.Vec3{0.7, 0.7, 0.7}) {
		t.Fatalf("cube scale = %v", s.Cube.Scale)
	}

	s.Update(at(0))
	if s.State() != scramble.Idle {
		t.Fatalf("state = %v before post-load delay", s.State())
	}
	s.Update(at(500))
	if s.State() != scramble.Scrambling {
		t.Fatalf("state = %v at 500ms", s.State())
	}
	for ms := 516; ms < 2000; ms += 16 {
		s.Update(at(ms))
	}
	s.Update(at(2000))
	if b := rotations(s, "cube_b", scenegraph.AxisX); !allNear(b, scramble.QuarterTurn) {
		t.Fatalf("cube_b X rotations = %v", b)
	}
	if g := rotations(s, "cube_g", scenegraph.AxisX); !allNear(g, 0) {
		t.Fatalf("cube_g X rotations = %v", g)
	}

	s.Update(at(3500))
	if s.State() != scramble.Finished {
		t.Fatalf("state = %v at 3500ms", s.State())
	}
	if g := rotations(s, "cube_g", scenegraph.AxisX); !allNear(g, -scramble.QuarterTurn) {
		t.Fatalf("cube_g X rotations = %v", g)
	}
	if w := rotations(s, "cube_w", scenegraph.AxisX); !allNear(w, 0) {
		t.Fatalf("middle slice moved: %v", w)
	}
	if s.Phase() != Ready {
		t.Fatalf("phase = %v", s.Phase())
	}
	if !s.Loading.Visible || s.Loading.Opacity != 0.3 {
		t.Fatalf("loading = %+v right after finish", s.Loading)
	}
	s.Update(at(3999))
	if !s.Loading.Visible {
		t.Fatal("hidden too early")
	}
	s.Update(at(4000))
	if s.Loading.Visible {
		t.Fatal("still visible 500ms after finish")
	}

	yaw := s.Cube.Rotation[1]
	s.Update(at(5000))
	s.Update(at(6000))
	if s.Cube.Rotation[1] != yaw {
		t.Fatal("cube moved after the intro")
	}
}

func TestPostLoadDelayCountsFromArrivalFrame(t *testing.T) {
	s := New(preset(t, "phased"), nil, t0)
	release := make(chan struct{})
	root := cubeModel()
	s.Begin(context.Background(), asset.LoaderFunc(func(ctx context.Context, src string) (*scenegraph.Node, error) {
		<-release
		return root, nil
	}), "late.glb")
	s.Update(at(0))
	if s.Cube != nil {
		t.Fatal("model arrived before the loader returned")
	}
	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for len(s.results) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("loader did not deliver")
		}
		time.Sleep(time.Millisecond)
	}

	s.Update(at(400))
	if s.Cube != root {
		t.Fatal("model not picked up on the 400ms frame")
	}
	s.Update(at(500))
	if s.State() != scramble.Idle {
		t.Fatalf("state = %v at 500ms, want idle until 900ms", s.State())
	}
	s.Update(at(899))
	if s.State() != scramble.Idle {
		t.Fatalf("state = %v at 899ms", s.State())
	}
	if s.Cube.Rotation[1] <= 0 {
		t.Fatal("cube did not idle-spin while waiting")
	}
	s.Update(at(900))
	if s.State() != scramble.Scrambling {
		t.Fatalf("state = %v at 900ms", s.State())
	}
}

func TestIdleSpin(t *testing.T) {
	s := New(preset(t, "phased"), nil, t0)
	begin(t, s, modelLoader(cubeModel()))
	const n = 20
	for i := 0; i < n; i++ {
		s.Update(at(i * 16))
	}
	if got, want := s.Cube.Rotation[1], float32(n)*s.Preset.Spin.Idle; math32.Abs(got-want) > tol {
		t.Fatalf("yaw = %v, want %v", got, want)
	}
}

func TestNoSpinBeforeLoad(t *testing.T) {
	s := New(preset(t, "phased"), nil, t0)
	block := make(chan struct{})
	defer close(block)
	s.Begin(context.Background(), asset.LoaderFunc(func(ctx context.Context, src string) (*scenegraph.Node, error) {
		<-block
		return nil, ctx.Err()
	}), "slow.glb")
	for i := 0; i < 10; i++ {
		s.Update(at(i * 16))
	}
	if s.Cube != nil || s.Phase() != Loading {
		t.Fatalf("cube = %v phase = %v", s.Cube, s.Phase())
	}
}

func TestFrontPresetSpinsDuringScramble(t *testing.T) {
	s := New(preset(t, "front"), nil, t0)
	begin(t, s, modelLoader(cubeModel()))
	s.Update(at(500))
	yaw := s.Cube.Rotation[1]
	for ms := 516; ms < 1000; ms += 16 {
		s.Update(at(ms))
	}
	steps := (1000 - 516 + 15) / 16
	if got, want := s.Cube.Rotation[1]-yaw, float32(steps)*0.002; math32.Abs(got-want) > tol {
		t.Fatalf("scramble spin = %v, want %v", got, want)
	}
	if s.Loading.Opacity != 1 {
		t.Fatalf("opacity = %v", s.Loading.Opacity)
	}
	s.Update(at(3500))
	if s.Loading.Opacity != 0 || s.Phase() != Ready {
		t.Fatalf("opacity = %v phase = %v", s.Loading.Opacity, s.Phase())
	}
}

func TestResizeDoesNotTouchAnimation(t *testing.T) {
	s := New(preset(t, "phased"), nil, t0)
	var seen []Viewport
	s.OnResize(func(v Viewport) { seen = append(seen, v) })
	begin(t, s, modelLoader(cubeModel()))
	s.Update(at(500))
	s.Update(at(1250))
	before := rotations(s, "cube_b", scenegraph.AxisX)
	yaw := s.Cube.Rotation[1]

	s.Resize(1920, 1080)
	s.Resize(0, 100)
	if len(seen) != 1 || seen[0].Width != 1920 || math32.Abs(seen[0].Aspect-16.0/9.0) > tol {
		t.Fatalf("viewports = %+v", seen)
	}
	after := rotations(s, "cube_b", scenegraph.AxisX)
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("resize changed a cubie")
		}
	}
	if s.Cube.Rotation[1] != yaw || s.State() != scramble.Scrambling {
		t.Fatal("resize changed the cube or the animator")
	}
}

func TestLoadFailure(t *testing.T) {
	log := logger.New("")
	s := New(preset(t, "phased"), log, t0)
	cause := errors.New("404")
	begin(t, s, asset.LoaderFunc(func(ctx context.Context, src string) (*scenegraph.Node, error) {
		return nil, cause
	}))
	if s.Phase() != Failed {
		t.Fatalf("phase = %v", s.Phase())
	}
	if !errors.Is(s.Loading.Err, cause) || !errors.Is(s.Loading.Err, asset.ErrLoad) {
		t.Fatalf("err = %v", s.Loading.Err)
	}
	s.Update(at(0))
	s.Update(at(500))
	if s.Loading.Visible {
		t.Fatal("loading screen should be dismissed after failure")
	}
	if s.State() != scramble.Idle {
		t.Fatalf("state = %v", s.State())
	}
	found := false
	for _, l := range log.Tail(100) {
		if strings.Contains(l, "ERROR") && strings.Contains(l, "404") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no error logged: %v", log.Tail(100))
	}
}

func TestEmptyModelFinishes(t *testing.T) {
	s := New(preset(t, "phased"), nil, t0)
	begin(t, s, modelLoader(scenegraph.NewNode(asset.RootName)))
	if len(s.Cubies) != 0 {
		t.Fatalf("cubies = %d", len(s.Cubies))
	}
	s.Update(at(500))
	s.Update(at(3500))
	if s.State() != scramble.Finished || s.Phase() != Ready {
		t.Fatalf("state = %v phase = %v", s.State(), s.Phase())
	}
}

func TestCloseCancelsTimers(t *testing.T) {
	s := New(preset(t, "phased"), nil, t0)
	begin(t, s, modelLoader(cubeModel()))
	if s.Scheduler().Pending() != 1 {
		t.Fatalf("pending = %d", s.Scheduler().Pending())
	}
	s.Close()
	if s.Scheduler().Pending() != 0 {
		t.Fatalf("pending after close = %d", s.Scheduler().Pending())
	}
	s.Update(at(1000))
	if s.State() != scramble.Idle || s.Cube.Rotation[1] != 0 {
		t.Fatalf("closed session advanced: state = %v yaw = %v", s.State(), s.Cube.Rotation[1])
	}
}

func TestOnLoaded(t *testing.T) {
	s := New(preset(t, "phased"), nil, t0)
	var got *scenegraph.Node
	s.OnLoaded(func(cube *scenegraph.Node) { got = cube })
	root := cubeModel()
	begin(t, s, modelLoader(root))
	if got != root {
		t.Fatal("OnLoaded not called with the scene root")
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{Loading: "loading", Ready: "ready", Failed: "failed", Phase(9): "unknown"} {
		if p.String() != want {
			t.Errorf("%d: %q", p, p.String())
		}
	}
}
