// Package scene draws the viewer: the lit cube model, the trackball camera and the loading
// overlay. Every function here must run on the main thread after the window exists.
package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"rubik-viewer/internal/config"
	"rubik-viewer/internal/controls"
	"rubik-viewer/internal/lighting"
	"rubik-viewer/internal/scenegraph"
	"rubik-viewer/internal/session"
)

// Scene holds a 3D camera driven by a trackball and draws the session's cube.
type Scene struct {
	Camera     rl.Camera3D
	Trackball  *controls.Trackball
	Background rl.Color
	Lights     lighting.Rig

	meshes   *meshCache
	pending  *scenegraph.Node
	viewport session.Viewport
}

// New returns a scene configured from p. It does not touch the GPU, so it may be built
// before the window opens.
func New(p config.Preset) *Scene {
	s := &Scene{Lights: p.Lights, meshes: newMeshCache()}
	pos := mgl32.Vec3(p.Camera.Position)
	target := mgl32.Vec3(p.Camera.Target)
	s.Trackball = controls.New(pos, target, p.Controls)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = p.Camera.Fovy
	s.Camera.Projection = rl.CameraPerspective
	s.syncCamera()
	bg, err := p.BackgroundRGBA()
	if err != nil {
		bg = [4]uint8{255, 255, 255, 255}
	}
	s.Background = rl.NewColor(bg[0], bg[1], bg[2], bg[3])
	return s
}

// Attach wires the scene to sess: meshes are uploaded on the first Draw after the model
// arrives and mouse deltas are scaled by the latest viewport height.
func (s *Scene) Attach(sess *session.Session) {
	sess.OnLoaded(func(cube *scenegraph.Node) {
		s.pending = cube
	})
	sess.OnResize(func(v session.Viewport) {
		s.viewport = v
	})
}

// Update reads mouse input and moves the camera: left drag orbits, right drag pans and the
// wheel zooms.
func (s *Scene) Update() {
	h := float32(s.viewport.Height)
	if h <= 0 {
		h = float32(max(rl.GetScreenHeight(), 1))
	}
	var in controls.Input
	d := rl.GetMouseDelta()
	delta := mgl32.Vec2{d.X / h, d.Y / h}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		in.Rotate = delta
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		in.Pan = delta
	}
	in.Wheel = rl.GetMouseWheelMove()
	s.Trackball.Update(in)
	s.syncCamera()
}

func (s *Scene) syncCamera() {
	t := s.Trackball
	s.Camera.Position = rl.NewVector3(t.Position[0], t.Position[1], t.Position[2])
	s.Camera.Target = rl.NewVector3(t.Target[0], t.Target[1], t.Target[2])
	s.Camera.Up = rl.NewVector3(t.Up[0], t.Up[1], t.Up[2])
}

// Draw renders the cube (if loaded) and the loading overlay. Call between BeginDrawing and
// EndDrawing; the background is cleared here.
func (s *Scene) Draw(sess *session.Session) {
	rl.ClearBackground(s.Background)
	if s.pending != nil {
		s.meshes.upload(s.pending)
		s.pending = nil
	}
	if sess.Cube != nil {
		pos := s.Camera.Position
		s.meshes.setView([3]float32{pos.X, pos.Y, pos.Z}, s.Lights)
		rl.BeginMode3D(s.Camera)
		s.meshes.draw(sess.Cube)
		rl.EndMode3D()
	}
	drawLoading(sess.Loading)
}

// Unload releases GPU resources. Call before the window closes.
func (s *Scene) Unload() {
	s.meshes.unload()
}
