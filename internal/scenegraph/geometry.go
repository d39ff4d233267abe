package scenegraph

import "github.com/go-gl/mathgl/mgl32"

// Triangles flattens p into non-indexed vertex and normal arrays, three floats per vertex.
// Missing or mismatched normals are replaced by flat face normals. Trailing vertices that do
// not form a whole triangle are dropped.
func (p Primitive) Triangles() (vertices, normals []float32) {
	order := p.Indices
	if len(order) == 0 {
		order = make([]uint32, len(p.Positions))
		for i := range order {
			order[i] = uint32(i)
		}
	}
	order = order[:len(order)/3*3]
	smooth := len(p.Normals) == len(p.Positions)
	vertices = make([]float32, 0, len(order)*3)
	normals = make([]float32, 0, len(order)*3)
	for t := 0; t < len(order); t += 3 {
		a, b, c := order[t], order[t+1], order[t+2]
		if int(a) >= len(p.Positions) || int(b) >= len(p.Positions) || int(c) >= len(p.Positions) {
			continue
		}
		var face mgl32.Vec3
		if !smooth {
			pa, pb, pc := mgl32.Vec3(p.Positions[a]), mgl32.Vec3(p.Positions[b]), mgl32.Vec3(p.Positions[c])
			face = pb.Sub(pa).Cross(pc.Sub(pa))
			if face.Len() > 0 {
				face = face.Normalize()
			}
		}
		for _, i := range [3]uint32{a, b, c} {
			v := p.Positions[i]
			vertices = append(vertices, v[0], v[1], v[2])
			n := face
			if smooth {
				n = p.Normals[i]
			}
			normals = append(normals, n[0], n[1], n[2])
		}
	}
	return vertices, normals
}
