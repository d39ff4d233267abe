// Package lighting describes the fixed light rig: one ambient term plus directional lights.
// Directional lights are placed like scene objects and shine toward the origin.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxDirectional is the number of directional lights the shader accepts.
const MaxDirectional = 8

// Directional is a light at Position pointing at the origin.
type Directional struct {
	Name      string     `yaml:"name"`
	Position  [3]float32 `yaml:"position"`
	Intensity float32    `yaml:"intensity"`
}

// ToLight returns the normalized direction from a surface toward the light.
// A light at the origin points straight down the +Y axis.
func (d Directional) ToLight() mgl32.Vec3 {
	v := mgl32.Vec3(d.Position)
	if v.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}

// Rig is the complete lighting setup.
type Rig struct {
	Ambient     float32       `yaml:"ambient"`
	Directional []Directional `yaml:"directional"`
}

// Default is the six-light studio rig: key, fill, right, back, top and bottom.
func Default() Rig {
	return Rig{
		Ambient: 2.0,
		Directional: []Directional{
			{Name: "key", Position: [3]float32{1, 2, 3}, Intensity: 0.8},
			{Name: "fill", Position: [3]float32{-3, 0, 1}, Intensity: 0.6},
			{Name: "right", Position: [3]float32{3, 0, 1}, Intensity: 0.6},
			{Name: "back", Position: [3]float32{0, 0, -3}, Intensity: 0.5},
			{Name: "top", Position: [3]float32{0, 3, 0}, Intensity: 0.5},
			{Name: "bottom", Position: [3]float32{0, -2, 0}, Intensity: 0.4},
		},
	}
}

// ambientScale maps the rig's ambient intensity onto the shader's 0..1 range so the stock
// ambient of 2.0 leaves room for directional highlights.
const ambientScale = 0.25

// Uniforms is the flattened form uploaded to the lit shader.
type Uniforms struct {
	Ambient     float32
	Count       int32
	Dirs        [MaxDirectional * 3]float32
	Intensities [MaxDirectional]float32
}

// Uniforms flattens the rig. Lights beyond MaxDirectional are dropped.
func (r Rig) Uniforms() Uniforms {
	u := Uniforms{Ambient: r.Ambient * ambientScale}
	for i, d := range r.Directional {
		if i >= MaxDirectional {
			break
		}
		dir := d.ToLight()
		u.Dirs[i*3+0] = dir[0]
		u.Dirs[i*3+1] = dir[1]
		u.Dirs[i*3+2] = dir[2]
		u.Intensities[i] = d.Intensity
		u.Count++
	}
	return u
}

// Shade returns the light factor for a surface normal: the scaled ambient plus each light's
// Lambert term. The shader computes the same value per fragment.
func (r Rig) Shade(normal mgl32.Vec3) float32 {
	u := r.Uniforms()
	n := normal
	if n.Len() > 0 {
		n = n.Normalize()
	}
	total := u.Ambient
	for i := int32(0); i < u.Count; i++ {
		dir := mgl32.Vec3{u.Dirs[i*3], u.Dirs[i*3+1], u.Dirs[i*3+2]}
		if d := n.Dot(dir); d > 0 {
			total += d * u.Intensities[i]
		}
	}
	return total
}
