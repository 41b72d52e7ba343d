// Package renderer draws the planner scene with OpenGL: wall meshes with
// door cutouts, room floor slabs, and instance boxes. Everything is flat
// shaded with a single directional light; materials come later if ever.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/shader"
	"github.com/Faultbox/roomforge/internal/engine/walls"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Color is straight RGBA.
type Color [4]float32

var (
	ColorWall     = Color{0.82, 0.80, 0.76, 1}
	ColorFloor    = Color{0.55, 0.47, 0.38, 1}
	ColorItem     = Color{0.35, 0.55, 0.75, 1}
	ColorSelected = Color{0.95, 0.75, 0.25, 1}
	ColorGhost    = Color{0.4, 0.8, 0.5, 0.45}
	ColorInvalid  = Color{0.85, 0.3, 0.3, 0.45}
)

type glMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program *shader.Program
	uProj   int32
	uView   int32
	uModel  int32
	uColor  int32
	uLight  int32

	cube      glMesh
	wallViews map[string]glMesh

	proj math.Mat4
	view math.Mat4
}

// New creates a renderer. Must be called after the OpenGL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:    cfg,
		wallViews: make(map[string]glMesh),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.12, 0.12, 0.15, 1.0)

	program, err := shader.Compile(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program
	r.uProj = program.MustUniform("uProj")
	r.uView = program.MustUniform("uView")
	r.uModel = program.MustUniform("uModel")
	r.uColor = program.MustUniform("uColor")
	r.uLight = program.MustUniform("uLightDir")

	r.cube = uploadVertices(cubeVertices())
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	deleteMesh(&r.cube)
	for id, m := range r.wallViews {
		m := m
		deleteMesh(&m)
		delete(r.wallViews, id)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	aspect := float32(width) / float32(height)
	r.proj = math.Perspective(0.9, aspect, 0.1, 500)
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() math.Mat4 {
	return r.proj
}

// Begin starts a frame with the given view matrix.
func (r *Renderer) Begin(view math.Mat4) {
	r.view = view
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	gl.UniformMatrix4fv(r.uProj, 1, false, r.proj.Ptr())
	gl.UniformMatrix4fv(r.uView, 1, false, r.view.Ptr())
	gl.Uniform3f(r.uLight, -0.4, -1, -0.3)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// SetWalls uploads wall meshes, replacing any previous set. Called whenever
// the floorplan (and therefore the synthesized geometry) changes.
func (r *Renderer) SetWalls(meshes map[string]*walls.Mesh) {
	for id, m := range r.wallViews {
		m := m
		deleteMesh(&m)
		delete(r.wallViews, id)
	}
	for id, mesh := range meshes {
		if len(mesh.Indices) == 0 {
			continue
		}
		r.wallViews[id] = uploadIndexed(mesh)
	}
	logger.Debug("wall meshes uploaded", zap.Int("count", len(r.wallViews)))
}

// DrawWalls draws every uploaded wall mesh in world space.
func (r *Renderer) DrawWalls() {
	model := math.Identity()
	gl.UniformMatrix4fv(r.uModel, 1, false, model.Ptr())
	r.setColor(ColorWall)
	for _, m := range r.wallViews {
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	}
}

// DrawFloor draws a thin slab covering the given span at floor height.
func (r *Renderer) DrawFloor(min, max math.Vec3) {
	const slab = 0.05
	bounds := picking.NewAABB(
		math.Vec3{X: min.X, Y: min.Y - slab, Z: min.Z},
		math.Vec3{X: max.X, Y: min.Y, Z: max.Z},
	)
	r.DrawBox(bounds, ColorFloor)
}

// DrawBox draws an axis-aligned box.
func (r *Renderer) DrawBox(bounds picking.AABB, color Color) {
	center := bounds.Center()
	size := bounds.Size()

	model := math.Translate(center.X, center.Y, center.Z).
		Mul(math.Scale(size.X, size.Y, size.Z))
	gl.UniformMatrix4fv(r.uModel, 1, false, model.Ptr())
	r.setColor(color)

	gl.BindVertexArray(r.cube.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 36)
}

// DrawBoxTransform draws the unit cube under an arbitrary model transform.
// Callers compose the placement transform and the cube-to-bounds mapping.
func (r *Renderer) DrawBoxTransform(model math.Mat4, color Color) {
	gl.UniformMatrix4fv(r.uModel, 1, false, model.Ptr())
	r.setColor(color)

	gl.BindVertexArray(r.cube.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 36)
}

func (r *Renderer) setColor(c Color) {
	gl.Uniform4f(r.uColor, c[0], c[1], c[2], c[3])
}

func deleteMesh(m *glMesh) {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	*m = glMesh{}
}

// uploadIndexed uploads a wall mesh: interleaved position, normal, uv.
func uploadIndexed(mesh *walls.Mesh) glMesh {
	data := make([]float32, 0, len(mesh.Vertices)*8)
	for _, v := range mesh.Vertices {
		data = append(data,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.UV.X, v.UV.Y,
		)
	}

	var m glMesh
	m.indexCount = int32(len(mesh.Indices))

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	const stride = 8 * 4
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m
}

// uploadVertices uploads non-indexed position+normal triangles.
func uploadVertices(data []float32) glMesh {
	var m glMesh

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)

	const stride = 6 * 4
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m
}

const vertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uProj;
uniform mat4 uView;
uniform mat4 uModel;

out vec3 vNormal;

void main() {
	gl_Position = uProj * uView * uModel * vec4(aPos, 1.0);
	vNormal = mat3(uModel) * aNormal;
}
`

const fragmentSrc = `
#version 410 core

in vec3 vNormal;

uniform vec4 uColor;
uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
	float diffuse = max(dot(normalize(vNormal), normalize(-uLightDir)), 0.0);
	float shade = 0.4 + 0.6 * diffuse;
	FragColor = vec4(uColor.rgb * shade, uColor.a);
}
`

// cubeVertices is a unit cube centered at the origin, position + normal.
func cubeVertices() []float32 {
	faces := []struct {
		normal  math.Vec3
		corners [4]math.Vec3
	}{
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: 0.5, Y: -0.5, Z: -0.5}, {X: -0.5, Y: -0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: 0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: 0.5}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -0.5, Y: -0.5, Z: -0.5}, {X: -0.5, Y: -0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: -0.5}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -0.5, Y: 0.5, Z: 0.5}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: 0.5}, {X: -0.5, Y: -0.5, Z: 0.5}}},
	}

	out := make([]float32, 0, 36*6)
	push := func(p, n math.Vec3) {
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
	}
	for _, f := range faces {
		c := f.corners
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			push(c[i], f.normal)
		}
	}
	return out
}
