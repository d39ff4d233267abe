// Package scenegraph holds the transformable node tree produced by the asset loader.
// Rotations are Euler angles in radians applied in X, then Y, then Z order
// (local matrix = T * Rx * Ry * Rz * S), matching the usual three.js "XYZ" convention.
package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Axis selects one component of a vector or Euler rotation.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Valid reports whether a is one of AxisX, AxisY, AxisZ.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Primitive is one drawable triangle list. Indices may be empty for non-indexed geometry.
type Primitive struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
	Color     [4]float32
}

// Mesh is the renderable payload of a node. Bounds is in the node's local space.
type Mesh struct {
	Name       string
	Primitives []Primitive
	Bounds     AABB
}

// Node is one element of the scene graph.
type Node struct {
	Name        string
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
	Mesh        *Mesh

	parent   *Node
	children []*Node
}

// NewNode returns a node with identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Scale: mgl32.Vec3{1, 1, 1}}
}

// IsMesh reports whether the node carries renderable geometry.
func (n *Node) IsMesh() bool {
	return n.Mesh != nil
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in insertion order. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends c to n's children, detaching it from any previous parent.
func (n *Node) AddChild(c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) removeChild(c *Node) {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Traverse visits n and every descendant depth-first, pre-order. Returning false from fn
// skips that node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// RotationMatrix returns Rx * Ry * Rz for an Euler rotation.
func RotationMatrix(euler mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(euler[0]).
		Mul4(mgl32.HomogRotate3DY(euler[1])).
		Mul4(mgl32.HomogRotate3DZ(euler[2]))
}

// EulerFromQuat converts a unit quaternion into XYZ-order Euler angles.
func EulerFromQuat(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()
	m13 := m.At(0, 2)
	y := math32.Asin(mgl32.Clamp(m13, -1, 1))
	var x, z float32
	if math32.Abs(m13) < 0.9999999 {
		x = math32.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math32.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = math32.Atan2(m.At(2, 1), m.At(1, 1))
	}
	return mgl32.Vec3{x, y, z}
}

// LocalMatrix returns T * R * S for the node's current transform.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(RotationMatrix(n.Rotation)).Mul4(s)
}

// WorldMatrix composes local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldBounds returns the world-space box containing the node's mesh and all descendant meshes.
// ok is false when no mesh is found in the subtree.
func (n *Node) WorldBounds() (box AABB, ok bool) {
	box = EmptyAABB()
	n.expandWorldBounds(n.parentWorld(), &box)
	return box, !box.IsEmpty()
}

func (n *Node) parentWorld() mgl32.Mat4 {
	if n.parent == nil {
		return mgl32.Ident4()
	}
	return n.parent.WorldMatrix()
}

func (n *Node) expandWorldBounds(parent mgl32.Mat4, box *AABB) {
	world := parent.Mul4(n.LocalMatrix())
	if n.Mesh != nil {
		*box = box.Union(n.Mesh.Bounds.Transform(world))
	}
	for _, c := range n.children {
		c.expandWorldBounds(world, box)
	}
}
