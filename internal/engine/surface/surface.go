// Package surface maintains the runtime registry of raycastable placement
// targets: the floor plane, wall faces, and opted-in item surfaces such as
// rug or shelf tops. The raycaster tests categories in priority order, item
// surfaces first as the most specific, and falls back to the floor plane so
// placement never silently fails.
package surface

import (
	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Type categorizes a placement surface.
type Type string

const (
	TypeFloor Type = "floor"
	TypeWall  Type = "wall"
	TypeItem  Type = "item"
)

// Surface is one registered placement target. Exactly one geometry field is
// meaningful per Type: Wall for walls, Top for item surfaces (the box's upper
// face is the placeable plane), FloorY for floors.
type Surface struct {
	ID     string
	Type   Type
	RoomID string

	Wall   picking.Rect
	Top    picking.AABB
	FloorY float32
}

// Hit is a raycast result.
type Hit struct {
	Point       math.Vec3
	SurfaceID   string
	SurfaceType Type
	RoomID      string
	Distance    float32
}

// Registry indexes surfaces by id. All mutation happens on the single
// render/interaction goroutine; registration is safe to call redundantly
// because floorplan edits can remount scene objects.
type Registry struct {
	surfaces map[string]Surface
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Register adds a surface, replacing any prior entry with the same id.
func (r *Registry) Register(s Surface) {
	if s.ID == "" {
		logger.Warn("surface registered with empty id, ignoring")
		return
	}
	r.surfaces[s.ID] = s
}

// Unregister removes a surface. Removing an unknown id is a no-op.
func (r *Registry) Unregister(id string) {
	delete(r.surfaces, id)
}

// Get returns the surface with the given id.
func (r *Registry) Get(id string) (Surface, bool) {
	s, ok := r.surfaces[id]
	return s, ok
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	return len(r.surfaces)
}

// Raycast tests registered item surfaces first, then walls, then the floor.
// The floor plane at y=0 is the unconditional fallback even with nothing
// registered, so a miss only happens for rays that never cross the floor.
func (r *Registry) Raycast(ray picking.Ray) (Hit, bool) {
	if hit, ok := r.raycastType(ray, TypeItem); ok {
		return hit, true
	}
	if hit, ok := r.raycastType(ray, TypeWall); ok {
		return hit, true
	}
	if hit, ok := r.raycastType(ray, TypeFloor); ok {
		return hit, true
	}

	// Fallback floor plane.
	point, ok := ray.IntersectPlaneY(0)
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Point:       point,
		SurfaceType: TypeFloor,
		Distance:    ray.Origin.Distance(point),
	}, true
}

// RaycastWalls tests wall surfaces only; wall items never land on floors or
// item tops.
func (r *Registry) RaycastWalls(ray picking.Ray) (Hit, bool) {
	return r.raycastType(ray, TypeWall)
}

// raycastType returns the nearest hit among surfaces of one category.
func (r *Registry) raycastType(ray picking.Ray, t Type) (Hit, bool) {
	best := Hit{Distance: 1e30}
	found := false

	for _, s := range r.surfaces {
		if s.Type != t {
			continue
		}
		point, dist, ok := intersect(ray, s)
		if !ok || dist >= best.Distance {
			continue
		}
		best = Hit{
			Point:       point,
			SurfaceID:   s.ID,
			SurfaceType: s.Type,
			RoomID:      s.RoomID,
			Distance:    dist,
		}
		found = true
	}

	return best, found
}

func intersect(ray picking.Ray, s Surface) (math.Vec3, float32, bool) {
	switch s.Type {
	case TypeWall:
		return ray.IntersectRect(s.Wall)

	case TypeItem:
		// The placeable plane is the box's top face.
		top := s.Top.Max.Y
		point, ok := ray.IntersectPlaneY(top)
		if !ok {
			return math.Vec3{}, 0, false
		}
		if point.X < s.Top.Min.X || point.X > s.Top.Max.X ||
			point.Z < s.Top.Min.Z || point.Z > s.Top.Max.Z {
			return math.Vec3{}, 0, false
		}
		return point, ray.Origin.Distance(point), true

	case TypeFloor:
		point, ok := ray.IntersectPlaneY(s.FloorY)
		if !ok {
			return math.Vec3{}, 0, false
		}
		return point, ray.Origin.Distance(point), true

	default:
		logger.Warn("surface with unknown type", zap.String("id", s.ID))
		return math.Vec3{}, 0, false
	}
}
