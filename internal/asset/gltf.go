package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"rubik-viewer/internal/download"
	"rubik-viewer/internal/scenegraph"
)

// RootName is the name of the synthetic node holding the document's scene.
const RootName = "Scene"

// GLTF loads binary or JSON glTF from a path or http(s) URL.
type GLTF struct {
	// Client is used for URLs; nil means a client with download.DefaultTimeout.
	Client *http.Client
	// TempDir receives downloads; empty means os.TempDir().
	TempDir string
}

// Load implements Loader.
func (g GLTF) Load(ctx context.Context, src string) (*scenegraph.Node, error) {
	path, err := Resolve(src)
	if err != nil {
		return nil, err
	}
	if download.IsURL(path) {
		dir, err := os.MkdirTemp(g.TempDir, "cubeview-*")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoad, err)
		}
		defer os.RemoveAll(dir)
		path, err = download.Fetch(ctx, g.Client, path, dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
	}
	root, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
	}
	return root, nil
}

// Decode reads a self-contained document (GLB, or glTF with embedded buffers) from r.
func Decode(r io.Reader) (*scenegraph.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	root, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return root, nil
}

// FromDocument converts the document's default scene (or the first scene, or every
// parentless node) into a scene graph under a node named RootName.
func FromDocument(doc *gltf.Document) (*scenegraph.Node, error) {
	roots := sceneRoots(doc)
	if len(roots) == 0 {
		return nil, ErrNoScene
	}
	c := converter{doc: doc, meshes: make(map[int]*scenegraph.Mesh), visiting: make(map[int]bool)}
	root := scenegraph.NewNode(RootName)
	for _, idx := range roots {
		n, err := c.node(idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(n)
	}
	return root, nil
}

func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}
	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var out []int
	for i := range doc.Nodes {
		if !child[i] {
			out = append(out, i)
		}
	}
	return out
}

type converter struct {
	doc      *gltf.Document
	meshes   map[int]*scenegraph.Mesh
	visiting map[int]bool
}

func (c *converter) node(idx int) (*scenegraph.Node, error) {
	if idx < 0 || idx >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if c.visiting[idx] {
		return nil, fmt.Errorf("node %d is its own ancestor", idx)
	}
	c.visiting[idx] = true
	defer delete(c.visiting, idx)

	src := c.doc.Nodes[idx]
	n := scenegraph.NewNode(src.Name)
	applyTransform(n, src)
	if src.Mesh != nil {
		m, err := c.mesh(*src.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", src.Name, err)
		}
		n.Mesh = m
	}
	for _, ci := range src.Children {
		child, err := c.node(ci)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func applyTransform(n *scenegraph.Node, src *gltf.Node) {
	m := src.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var mat mgl32.Mat4
		for i := range m {
			mat[i] = float32(m[i])
		}
		decompose(n, mat)
		return
	}
	t := src.TranslationOrDefault()
	s := src.ScaleOrDefault()
	r := src.RotationOrDefault()
	n.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	n.Rotation = scenegraph.EulerFromQuat(q)
}

// decompose splits a column-major TRS matrix. Shear is discarded.
func decompose(n *scenegraph.Node, m mgl32.Mat4) {
	n.Translation = m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Mat3().Det() < 0 {
		sx = -sx
	}
	n.Scale = mgl32.Vec3{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return
	}
	rot := mgl32.Mat4FromCols(
		m.Col(0).Mul(1/sx),
		m.Col(1).Mul(1/sy),
		m.Col(2).Mul(1/sz),
		mgl32.Vec4{0, 0, 0, 1},
	)
	n.Rotation = scenegraph.EulerFromQuat(mgl32.Mat4ToQuat(rot))
}

func (c *converter) mesh(idx int) (*scenegraph.Mesh, error) {
	if m, ok := c.meshes[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}
	src := c.doc.Meshes[idx]
	m := &scenegraph.Mesh{Name: src.Name, Bounds: scenegraph.EmptyAABB()}
	for _, p := range src.Primitives {
		prim, box, err := c.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", src.Name, err)
		}
		m.Bounds = m.Bounds.Union(box)
		m.Primitives = append(m.Primitives, prim)
	}
	c.meshes[idx] = m
	return m, nil
}

// primitive reads triangle data. Bounds come from the POSITION accessor's min/max, which
// the format requires, so a primitive whose buffers are absent still has a box.
func (c *converter) primitive(p *gltf.Primitive) (scenegraph.Primitive, scenegraph.AABB, error) {
	out := scenegraph.Primitive{Color: c.baseColor(p.Material)}
	box := scenegraph.EmptyAABB()
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok || posIdx >= len(c.doc.Accessors) {
		return out, box, nil
	}
	acr := c.doc.Accessors[posIdx]
	if len(acr.Min) >= 3 && len(acr.Max) >= 3 {
		box = box.Extend(mgl32.Vec3{float32(acr.Min[0]), float32(acr.Min[1]), float32(acr.Min[2])})
		box = box.Extend(mgl32.Vec3{float32(acr.Max[0]), float32(acr.Max[1]), float32(acr.Max[2])})
	}
	if acr.BufferView == nil {
		return out, box, nil
	}
	pos, err := modeler.ReadPosition(c.doc, acr, nil)
	if err != nil {
		return out, box, fmt.Errorf("positions: %w", err)
	}
	out.Positions = pos
	if box.IsEmpty() {
		for _, v := range pos {
			box = box.Extend(mgl32.Vec3(v))
		}
	}
	if ni, ok := p.Attributes[gltf.NORMAL]; ok && ni < len(c.doc.Accessors) && c.doc.Accessors[ni].BufferView != nil {
		normals, err := modeler.ReadNormal(c.doc, c.doc.Accessors[ni], nil)
		if err != nil {
			return out, box, fmt.Errorf("normals: %w", err)
		}
		out.Normals = normals
	}
	if p.Indices != nil && *p.Indices < len(c.doc.Accessors) && c.doc.Accessors[*p.Indices].BufferView != nil {
		indices, err := modeler.ReadIndices(c.doc, c.doc.Accessors[*p.Indices], nil)
		if err != nil {
			return out, box, fmt.Errorf("indices: %w", err)
		}
		out.Indices = indices
	}
	return out, box, nil
}

func (c *converter) baseColor(material *int) [4]float32 {
	col := [4]float32{1, 1, 1, 1}
	if material == nil || *material >= len(c.doc.Materials) {
		return col
	}
	pbr := c.doc.Materials[*material].PBRMetallicRoughness
	if pbr == nil {
		return col
	}
	f := pbr.BaseColorFactorOrDefault()
	return [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
}
