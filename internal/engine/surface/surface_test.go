package surface

import (
	"testing"

	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/pkg/math"
)

func downRayAt(x, z float32) picking.Ray {
	return picking.Ray{
		Origin:    math.Vec3{X: x, Y: 20, Z: z},
		Direction: math.Vec3{Y: -1},
	}
}

// With nothing registered, a pointer ray hitting y=0 at (3,0,-2) must resolve
// to the floor at exactly that point.
func TestRaycastFloorFallback(t *testing.T) {
	r := NewRegistry()

	hit, ok := r.Raycast(downRayAt(3, -2))
	if !ok {
		t.Fatal("Raycast missed, want floor fallback hit")
	}
	if hit.SurfaceType != TypeFloor {
		t.Errorf("SurfaceType = %q, want floor", hit.SurfaceType)
	}
	want := math.Vec3{X: 3, Y: 0, Z: -2}
	if hit.Point != want {
		t.Errorf("Point = %v, want %v", hit.Point, want)
	}
}

func TestRaycastMissOnlyForRaysAboveFloor(t *testing.T) {
	r := NewRegistry()
	upward := picking.Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: 1}}
	if _, ok := r.Raycast(upward); ok {
		t.Error("upward ray reported a hit")
	}
}

func TestRaycastPriorityItemOverFloor(t *testing.T) {
	r := NewRegistry()
	r.Register(Surface{ID: "floor", Type: TypeFloor, RoomID: "r1"})
	r.Register(Surface{
		ID:   "rug-1",
		Type: TypeItem,
		Top:  picking.NewAABB(math.Vec3{X: -2, Z: -2}, math.Vec3{X: 2, Y: 0.1, Z: 2}),
	})

	hit, ok := r.Raycast(downRayAt(1, 1))
	if !ok || hit.SurfaceID != "rug-1" || hit.SurfaceType != TypeItem {
		t.Fatalf("hit = %+v ok=%v, want rug-1 item surface", hit, ok)
	}
	if math.Abs(hit.Point.Y-0.1) > 1e-5 {
		t.Errorf("hit y = %v, want rug top 0.1", hit.Point.Y)
	}

	// Outside the rug the floor wins.
	hit, ok = r.Raycast(downRayAt(5, 5))
	if !ok || hit.SurfaceType != TypeFloor {
		t.Fatalf("hit = %+v ok=%v, want floor", hit, ok)
	}
}

func TestRaycastWallsOnly(t *testing.T) {
	r := NewRegistry()
	r.Register(Surface{ID: "floor", Type: TypeFloor})
	r.Register(Surface{
		ID:   "w1",
		Type: TypeWall,
		Wall: picking.Rect{
			Center:     math.Vec3{Y: 4},
			Tangent:    math.Vec3{X: 1},
			Up:         math.Vec3{Y: 1},
			HalfWidth:  5,
			HalfHeight: 4,
		},
	})

	toward := picking.Ray{Origin: math.Vec3{X: 1, Y: 3, Z: 10}, Direction: math.Vec3{Z: -1}}
	hit, ok := r.RaycastWalls(toward)
	if !ok || hit.SurfaceID != "w1" {
		t.Fatalf("RaycastWalls = %+v ok=%v, want w1", hit, ok)
	}

	// A ray missing every wall must not fall back to the floor here.
	if _, ok := r.RaycastWalls(downRayAt(0, 20)); ok {
		t.Error("RaycastWalls fell back to a non-wall surface")
	}
}

func TestRaycastNearestWall(t *testing.T) {
	r := NewRegistry()
	mkWall := func(id string, z float32) Surface {
		return Surface{
			ID:   id,
			Type: TypeWall,
			Wall: picking.Rect{
				Center:     math.Vec3{Y: 4, Z: z},
				Tangent:    math.Vec3{X: 1},
				Up:         math.Vec3{Y: 1},
				HalfWidth:  5,
				HalfHeight: 4,
			},
		}
	}
	r.Register(mkWall("near", 5))
	r.Register(mkWall("far", -5))

	ray := picking.Ray{Origin: math.Vec3{Y: 4, Z: 10}, Direction: math.Vec3{Z: -1}}
	hit, ok := r.RaycastWalls(ray)
	if !ok || hit.SurfaceID != "near" {
		t.Errorf("hit = %+v, want nearest wall", hit)
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	r := NewRegistry()
	r.Register(Surface{ID: "floor", Type: TypeFloor, FloorY: 0})
	r.Register(Surface{ID: "floor", Type: TypeFloor, FloorY: 1})

	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after re-register", r.Len())
	}
	s, _ := r.Get("floor")
	if s.FloorY != 1 {
		t.Errorf("FloorY = %v, want replacement value 1", s.FloorY)
	}

	r.Unregister("floor")
	r.Unregister("floor") // idempotent
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}
