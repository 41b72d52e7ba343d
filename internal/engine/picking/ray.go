// Package picking provides ray construction and primitive intersection tests
// used by surface raycasting.
package picking

import (
	"github.com/Faultbox/roomforge/pkg/math"
)

// Ray is a half-line in world space.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // normalized
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts screen pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Normalized device coords, Y flipped
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH

	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1.0, 1.0})

	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	dir := math.Vec3{
		X: farWorld[0] - nearWorld[0],
		Y: farWorld[1] - nearWorld[1],
		Z: farWorld[2] - nearWorld[2],
	}.Normalize()

	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane at planeY.
func (r Ray) IntersectPlaneY(planeY float32) (point math.Vec3, ok bool) {
	if math.Abs(r.Direction.Y) < 0.001 {
		return math.Vec3{}, false // parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false // behind ray origin
	}

	return r.At(t), true
}

// IntersectPlane intersects the ray with an arbitrary plane given by a point
// and normal. Returns the hit point and distance t.
func (r Ray) IntersectPlane(point, normal math.Vec3) (hit math.Vec3, t float32, ok bool) {
	denom := r.Direction.Dot(normal)
	if math.Abs(denom) < 1e-6 {
		return math.Vec3{}, 0, false
	}

	t = point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return math.Vec3{}, 0, false
	}

	return r.At(t), t, true
}

// Rect is an oriented rectangle in 3D, used for wall faces. Center is the
// rectangle midpoint; Tangent and Up span the rectangle's plane and must be
// unit length; Normal = Tangent x Up.
type Rect struct {
	Center  math.Vec3
	Tangent math.Vec3
	Up      math.Vec3
	// Half extents along Tangent and Up.
	HalfWidth  float32
	HalfHeight float32
}

// Normal returns the rectangle's plane normal.
func (rc Rect) Normal() math.Vec3 {
	return rc.Tangent.Cross(rc.Up)
}

// IntersectRect intersects the ray with an oriented rectangle.
func (r Ray) IntersectRect(rc Rect) (hit math.Vec3, t float32, ok bool) {
	hit, t, ok = r.IntersectPlane(rc.Center, rc.Normal())
	if !ok {
		return math.Vec3{}, 0, false
	}

	d := hit.Sub(rc.Center)
	if math.Abs(d.Dot(rc.Tangent)) > rc.HalfWidth || math.Abs(d.Dot(rc.Up)) > rc.HalfHeight {
		return math.Vec3{}, 0, false
	}

	return hit, t, true
}

// IntersectAABB slab-tests the ray against an axis-aligned box. Returns the
// entry distance, or the exit distance when the ray starts inside.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-1e30)
	tmax := float32(1e30)

	axes := [3][3]float32{
		{r.Origin.X, r.Direction.X, 0},
		{r.Origin.Y, r.Direction.Y, 0},
		{r.Origin.Z, r.Direction.Z, 0},
	}
	mins := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	maxs := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		origin, dir := axes[i][0], axes[i][1]
		if dir != 0 {
			t1 := (mins[i] - origin) / dir
			t2 := (maxs[i] - origin) / dir
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if origin < mins[i] || origin > maxs[i] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB builds an AABB from two corners, swapping axes so Min <= Max.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents per axis.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Translate returns the box shifted by offset.
func (b AABB) Translate(offset math.Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// ScaleBy returns the box scaled per axis about the origin.
func (b AABB) ScaleBy(s math.Vec3) AABB {
	return NewAABB(b.Min.Mul(s), b.Max.Mul(s))
}
