package picking

import (
	"testing"

	"github.com/Faultbox/roomforge/pkg/math"
)

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{
		Origin:    math.Vec3{X: 3, Y: 10, Z: -2},
		Direction: math.Vec3{Y: -1},
	}
	p, ok := r.IntersectPlaneY(0)
	if !ok {
		t.Fatal("IntersectPlaneY(0) missed, want hit")
	}
	want := math.Vec3{X: 3, Y: 0, Z: -2}
	if p != want {
		t.Errorf("hit = %v, want %v", p, want)
	}
}

func TestIntersectPlaneYParallel(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{X: 1}}
	if _, ok := r.IntersectPlaneY(0); ok {
		t.Error("parallel ray reported a hit")
	}
}

func TestIntersectPlaneYBehind(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: 1}}
	if _, ok := r.IntersectPlaneY(0); ok {
		t.Error("plane behind ray origin reported a hit")
	}
}

func TestIntersectRect(t *testing.T) {
	// Wall face in the XY plane, normal +Z.
	rc := Rect{
		Center:     math.Vec3{X: 0, Y: 4, Z: 0},
		Tangent:    math.Vec3{X: 1},
		Up:         math.Vec3{Y: 1},
		HalfWidth:  5,
		HalfHeight: 4,
	}

	r := Ray{Origin: math.Vec3{X: 2, Y: 3, Z: 10}, Direction: math.Vec3{Z: -1}}
	hit, _, ok := r.IntersectRect(rc)
	if !ok {
		t.Fatal("IntersectRect missed, want hit")
	}
	if math.Abs(hit.X-2) > 1e-5 || math.Abs(hit.Y-3) > 1e-5 || math.Abs(hit.Z) > 1e-5 {
		t.Errorf("hit = %v, want (2,3,0)", hit)
	}

	// Outside the half extents.
	r2 := Ray{Origin: math.Vec3{X: 6, Y: 3, Z: 10}, Direction: math.Vec3{Z: -1}}
	if _, _, ok := r2.IntersectRect(rc); ok {
		t.Error("hit outside rectangle bounds reported ok")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	r := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}
	tHit, hit := r.IntersectAABB(box)
	if !hit {
		t.Fatal("ray through box missed")
	}
	if math.Abs(tHit-4) > 1e-5 {
		t.Errorf("entry t = %v, want 4", tHit)
	}

	miss := Ray{Origin: math.Vec3{X: 5, Z: 5}, Direction: math.Vec3{Z: -1}}
	if _, hit := miss.IntersectAABB(box); hit {
		t.Error("ray beside box reported a hit")
	}

	// Starting inside returns the exit distance.
	inside := Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: -1}}
	tExit, hit := inside.IntersectAABB(box)
	if !hit || math.Abs(tExit-1) > 1e-5 {
		t.Errorf("inside ray t = %v hit=%v, want t=1 hit=true", tExit, hit)
	}
}

func TestNewAABBSwapsCorners(t *testing.T) {
	box := NewAABB(math.Vec3{X: 2, Y: -3, Z: 1}, math.Vec3{X: -2, Y: 3, Z: -1})
	if box.Min.X != -2 || box.Min.Y != -3 || box.Min.Z != -1 {
		t.Errorf("Min = %v, want (-2,-3,-1)", box.Min)
	}
	if box.Max.X != 2 || box.Max.Y != 3 || box.Max.Z != 1 {
		t.Errorf("Max = %v, want (2,3,1)", box.Max)
	}
}
