// Package controls implements a trackball-style camera: drag to orbit, wheel to zoom,
// secondary drag to pan. It works on plain vectors; the scene feeds it input each frame and
// copies Position/Target/Up into the raylib camera.
package controls

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Settings are the fixed sensitivities.
type Settings struct {
	RotateSpeed float32 `yaml:"rotate_speed"`
	ZoomSpeed   float32 `yaml:"zoom_speed"`
	PanSpeed    float32 `yaml:"pan_speed"`
	// Damping is the fraction of residual motion removed per frame when StaticMoving is false.
	Damping      float32 `yaml:"damping"`
	StaticMoving bool    `yaml:"static_moving"`
	MinDistance  float32 `yaml:"min_distance"`
	MaxDistance  float32 `yaml:"max_distance"`
}

// DefaultSettings returns rotate 2.2, zoom 1.5, pan 1.0, damping 0.2, no inertia.
func DefaultSettings() Settings {
	return Settings{
		RotateSpeed:  2.2,
		ZoomSpeed:    1.5,
		PanSpeed:     1.0,
		Damping:      0.2,
		StaticMoving: true,
		MinDistance:  0.5,
		MaxDistance:  100,
	}
}

// Input is one frame of pointer input. Drag deltas are normalized by the viewport height so
// a drag across the full height is 1. Wheel is in notches, positive away from the user.
type Input struct {
	Rotate mgl32.Vec2
	Pan    mgl32.Vec2
	Wheel  float32
}

// wheelStep is the zoom fraction per wheel notch before ZoomSpeed is applied.
const wheelStep = 0.025

// Trackball orbits Position around Target.
type Trackball struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Settings Settings

	lastAxis  mgl32.Vec3
	lastAngle float32
	panVel    mgl32.Vec2
	zoomVel   float32
}

// New returns a trackball looking from position at target with +Y up.
func New(position, target mgl32.Vec3, s Settings) *Trackball {
	return &Trackball{Position: position, Target: target, Up: mgl32.Vec3{0, 1, 0}, Settings: s}
}

// Distance returns the distance from the camera to its target.
func (t *Trackball) Distance() float32 {
	return t.Position.Sub(t.Target).Len()
}

// Update applies one frame of input plus any inertia left from previous frames.
// Panning moves Target; Position follows at the new eye offset.
func (t *Trackball) Update(in Input) {
	eye := t.Position.Sub(t.Target)
	eye = t.rotate(eye, in.Rotate)
	eye = t.zoom(eye, in.Wheel)
	t.pan(eye, in.Pan)
	t.Position = t.Target.Add(eye)
}

func (t *Trackball) rotate(eye mgl32.Vec3, delta mgl32.Vec2) mgl32.Vec3 {
	angle := delta.Len()
	var axis mgl32.Vec3
	if angle > 0 {
		eyeDir := eye.Normalize()
		up := t.Up.Normalize()
		side := up.Cross(eyeDir).Normalize()
		// Screen Y grows downward; dragging down should tip the camera over the top.
		move := up.Mul(-delta[1]).Add(side.Mul(delta[0]))
		axis = move.Cross(eye).Normalize()
		angle *= t.Settings.RotateSpeed
		t.lastAxis = axis
		t.lastAngle = angle
	} else if !t.Settings.StaticMoving && t.lastAngle > 0 {
		t.lastAngle *= math32.Sqrt(1 - t.Settings.Damping)
		if t.lastAngle < 1e-5 {
			t.lastAngle = 0
			return eye
		}
		axis = t.lastAxis
		angle = t.lastAngle
	} else {
		return eye
	}
	if axis.Len() == 0 {
		return eye
	}
	q := mgl32.QuatRotate(angle, axis)
	t.Up = q.Rotate(t.Up)
	return q.Rotate(eye)
}

func (t *Trackball) zoom(eye mgl32.Vec3, wheel float32) mgl32.Vec3 {
	amount := wheel * wheelStep * t.Settings.ZoomSpeed
	if wheel == 0 {
		if t.Settings.StaticMoving || t.zoomVel == 0 {
			return eye
		}
		t.zoomVel *= 1 - t.Settings.Damping
		if math32.Abs(t.zoomVel) < 1e-5 {
			t.zoomVel = 0
			return eye
		}
		amount = t.zoomVel
	} else {
		t.zoomVel = amount
	}
	factor := 1 - amount
	if factor <= 0 {
		return eye
	}
	next := eye.Mul(factor)
	d := next.Len()
	if t.Settings.MinDistance > 0 && d < t.Settings.MinDistance {
		next = eye.Normalize().Mul(t.Settings.MinDistance)
	}
	if t.Settings.MaxDistance > 0 && d > t.Settings.MaxDistance {
		next = eye.Normalize().Mul(t.Settings.MaxDistance)
	}
	return next
}

func (t *Trackball) pan(eye mgl32.Vec3, delta mgl32.Vec2) {
	if delta.Len() > 0 {
		t.panVel = delta
	} else if !t.Settings.StaticMoving && t.panVel.Len() > 0 {
		t.panVel = t.panVel.Mul(1 - t.Settings.Damping)
		if t.panVel.Len() < 1e-5 {
			t.panVel = mgl32.Vec2{}
			return
		}
		delta = t.panVel
	} else {
		return
	}
	scaled := delta.Mul(eye.Len() * t.Settings.PanSpeed)
	side := eye.Cross(t.Up).Normalize()
	up := t.Up.Normalize()
	// Dragging right moves the scene right, so the camera moves left.
	t.Target = t.Target.Add(side.Mul(scaled[0]).Add(up.Mul(scaled[1])))
}
