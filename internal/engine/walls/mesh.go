package walls

import (
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Vertex is a wall mesh vertex ready for GPU upload.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Mesh is a triangulated wall with its bounding box.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   picking.AABB
}

// BuildMesh triangulates the segment's outline (doors already merged) and
// lifts it into 3D. The mesh is two-sided: every triangle is emitted once per
// face with opposite winding, since either room of a shared wall may view it
// from behind.
func BuildMesh(s *ComputedSegment) *Mesh {
	tris := Triangulate(s.Outline())
	if len(tris) == 0 {
		return &Mesh{}
	}

	tangent := s.Tangent()
	normal := s.Normal()
	// Wall-local y=0 sits at half height; the mesh rests on the floor.
	center := s.Position3D.Add(up.Scale(s.Height / 2))

	toWorld := func(p math.Vec2) math.Vec3 {
		return center.Add(tangent.Scale(p.X)).Add(up.Scale(p.Y))
	}
	uv := func(p math.Vec2) math.Vec2 {
		return math.Vec2{X: p.X/s.Length + 0.5, Y: p.Y/s.Height + 0.5}
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, len(tris)*2),
		Indices:  make([]uint32, 0, len(tris)*2),
	}

	bounds := picking.AABB{
		Min: math.Vec3{X: 1e30, Y: 1e30, Z: 1e30},
		Max: math.Vec3{X: -1e30, Y: -1e30, Z: -1e30},
	}
	push := func(pos math.Vec3, n math.Vec3, tex math.Vec2) {
		mesh.Indices = append(mesh.Indices, uint32(len(mesh.Vertices)))
		mesh.Vertices = append(mesh.Vertices, Vertex{Position: pos, Normal: n, UV: tex})
		bounds.Min = minVec(bounds.Min, pos)
		bounds.Max = maxVec(bounds.Max, pos)
	}

	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]

		// Front face (side A).
		push(toWorld(a), normal, uv(a))
		push(toWorld(b), normal, uv(b))
		push(toWorld(c), normal, uv(c))

		// Back face (side B), reversed winding.
		back := normal.Neg()
		push(toWorld(c), back, uv(c))
		push(toWorld(b), back, uv(b))
		push(toWorld(a), back, uv(a))
	}

	mesh.Bounds = bounds
	return mesh
}

func minVec(a, b math.Vec3) math.Vec3 {
	if b.X < a.X {
		a.X = b.X
	}
	if b.Y < a.Y {
		a.Y = b.Y
	}
	if b.Z < a.Z {
		a.Z = b.Z
	}
	return a
}

func maxVec(a, b math.Vec3) math.Vec3 {
	if b.X > a.X {
		a.X = b.X
	}
	if b.Y > a.Y {
		a.Y = b.Y
	}
	if b.Z > a.Z {
		a.Z = b.Z
	}
	return a
}
