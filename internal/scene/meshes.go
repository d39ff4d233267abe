package scene

import (
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"rubik-viewer/internal/lighting"
	"rubik-viewer/internal/scenegraph"
)

// cached holds the GPU mesh and material for one glTF primitive.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// meshCache maps scene graph meshes to uploaded primitives. Uploads happen on first use so
// that GPU resources are allocated after the window/OpenGL context exists.
type meshCache struct {
	cache   map[*scenegraph.Mesh][]cached
	shader  rl.Shader
	viewPos [3]float32
	lights  lighting.Uniforms
}

func newMeshCache() *meshCache {
	return &meshCache{cache: make(map[*scenegraph.Mesh][]cached)}
}

// setView sets camera position and light rig for this frame. Call once per frame before
// drawing nodes.
func (r *meshCache) setView(viewPos [3]float32, rig lighting.Rig) {
	r.viewPos = viewPos
	r.lights = rig.Uniforms()
}

func (r *meshCache) ensureShader() {
	if r.shader.ID != 0 {
		return
	}
	r.shader = rl.LoadShaderFromMemory(litVS, litFS)
}

// upload creates GPU meshes for every mesh under root that is not cached yet.
func (r *meshCache) upload(root *scenegraph.Node) {
	r.ensureShader()
	root.Traverse(func(n *scenegraph.Node) bool {
		if n.Mesh != nil {
			r.ensureMesh(n.Mesh)
		}
		return true
	})
}

func (r *meshCache) ensureMesh(m *scenegraph.Mesh) {
	if _, ok := r.cache[m]; ok {
		return
	}
	var out []cached
	for _, p := range m.Primitives {
		vertices, normals := p.Triangles()
		if len(vertices) == 0 {
			continue
		}
		mesh := uploadTriangles(vertices, normals)
		mtl := rl.LoadMaterialDefault()
		if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
			albedo.Color = colorFromLinear(p.Color)
		}
		if rl.IsShaderValid(r.shader) {
			mtl.Shader = r.shader
		}
		out = append(out, cached{mesh: mesh, mtl: mtl})
	}
	r.cache[m] = out
}

// uploadTriangles copies non-indexed geometry to the GPU. The Go slices are pinned for the
// duration of the call and detached afterwards, so raylib never frees Go memory.
func uploadTriangles(vertices, normals []float32) rl.Mesh {
	var pin runtime.Pinner
	defer pin.Unpin()
	pin.Pin(&vertices[0])
	pin.Pin(&normals[0])
	mesh := rl.Mesh{
		VertexCount:   int32(len(vertices) / 3),
		TriangleCount: int32(len(vertices) / 9),
		Vertices:      &vertices[0],
		Normals:       &normals[0],
	}
	rl.UploadMesh(&mesh, false)
	mesh.Vertices = nil
	mesh.Normals = nil
	return mesh
}

func colorFromLinear(c [4]float32) rl.Color {
	u := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
	}
	return rl.NewColor(u(c[0]), u(c[1]), u(c[2]), u(c[3]))
}

// draw renders every mesh node under root with its world matrix.
func (r *meshCache) draw(root *scenegraph.Node) {
	if rl.IsShaderValid(r.shader) {
		r.setLitShaderUniforms(r.shader)
	}
	drawNode(r, root, mgl32.Ident4())
}

func drawNode(r *meshCache, n *scenegraph.Node, parent mgl32.Mat4) {
	world := parent.Mul4(n.LocalMatrix())
	if n.Mesh != nil {
		transform := toMatrix(world)
		for _, c := range r.cache[n.Mesh] {
			rl.DrawMesh(c.mesh, c.mtl, transform)
		}
	}
	for _, c := range n.Children() {
		drawNode(r, c, world)
	}
}

func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// unload releases GPU buffers and the shader. Materials share the shader, so they are not
// unloaded one by one.
func (r *meshCache) unload() {
	for key, list := range r.cache {
		for i := range list {
			rl.UnloadMesh(&list[i].mesh)
		}
		delete(r.cache, key)
	}
	if r.shader.ID != 0 {
		rl.UnloadShader(r.shader)
		r.shader = rl.Shader{}
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	// litFS: ambient plus one Lambert term per directional light, matching lighting.Rig.Shade,
	// with a small specular from the key light.
	litFS = `#version 330
#define MAX_LIGHTS 8
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform float ambient;
uniform vec3 lightDirs[MAX_LIGHTS];
uniform float lightIntensities[MAX_LIGHTS];
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 V = normalize(viewPos - fragPosition);
  float light = ambient;
  float spec = 0.0;
  for (int i = 0; i < MAX_LIGHTS; i++) {
    if (lightIntensities[i] <= 0.0) continue;
    vec3 L = normalize(lightDirs[i]);
    float NdotL = max(dot(N, L), 0.0);
    light += NdotL * lightIntensities[i];
    if (i == 0 && NdotL > 0.0) {
      spec = pow(max(dot(N, normalize(L + V)), 0.0), specularPower) * specularStrength;
    }
  }
  finalColor = vec4(min(colDiffuse.rgb * light + vec3(spec), vec3(1.0)), colDiffuse.a);
}
`
)

// defaultSpecularPower controls highlight tightness (higher = smaller, sharper highlight).
const defaultSpecularPower = float32(48.0)

// defaultSpecularStrength scales specular contribution (0 to 1).
const defaultSpecularStrength = float32(0.2)

// setLitShaderUniforms uploads view position and the light rig (cgo-safe: local arrays).
func (r *meshCache) setLitShaderUniforms(shader rl.Shader) {
	viewPos := [3]float32{r.viewPos[0], r.viewPos[1], r.viewPos[2]}
	dirs := r.lights.Dirs
	intensities := r.lights.Intensities
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{r.lights.Ambient}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "lightDirs"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, dirs[:], rl.ShaderUniformVec3, lighting.MaxDirectional)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensities"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, intensities[:], rl.ShaderUniformFloat, lighting.MaxDirectional)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularStrength}, rl.ShaderUniformFloat)
	}
}
