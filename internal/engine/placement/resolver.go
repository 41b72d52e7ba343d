// Package placement turns pointer rays into validated placement poses and
// runs the preview session that creates new instances.
package placement

import (
	gomath "math"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/coords"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/scene"
	"github.com/Faultbox/roomforge/internal/engine/surface"
	"github.com/Faultbox/roomforge/pkg/math"
)

const (
	// WallBuffer keeps a wall item's back face just off the wall, feet.
	WallBuffer = 0.05

	// CeilingClearance drops the analytic ceiling plane below the room
	// height so hung items never clip the slab, feet.
	CeilingClearance = 0.1
)

// Candidate is a resolved placement pose plus its metadata. Position is in
// world space; the session converts to room-local at commit.
type Candidate struct {
	Valid    bool
	Position math.Vec3
	Rotation math.Vec3
	Hit      surface.Hit

	Wall              *catalog.WallPlacement
	ParentSurfaceID   string
	ParentSurfaceType catalog.ParentSurfaceType
}

// Resolve computes a candidate pose for the item under the pointer ray.
// cameraPos disambiguates which side of a wall the viewer sees. roomHeight
// bounds the analytic ceiling plane for ceiling items.
func Resolve(item *catalog.Item, ray picking.Ray, cameraPos math.Vec3, scn *scene.Scene, roomHeight float32) Candidate {
	switch item.Placement {
	case catalog.PlacementWall:
		return resolveWall(item, ray, cameraPos, scn)
	case catalog.PlacementCeiling:
		return resolveCeiling(item, ray, roomHeight)
	default:
		return resolveFloor(item, ray, scn)
	}
}

// resolveFloor places on the best surface under the ray: item tops first,
// then walls are skipped (floor items cannot hang), then the floor plane.
func resolveFloor(item *catalog.Item, ray picking.Ray, scn *scene.Scene) Candidate {
	hit, ok := scn.Registry().Raycast(ray)
	if !ok {
		return Candidate{}
	}
	if hit.SurfaceType == surface.TypeWall {
		// Walls occlude the floor for the ray but are not valid targets for
		// a floor item; project past them onto the floor plane.
		point, ok := ray.IntersectPlaneY(0)
		if !ok {
			return Candidate{}
		}
		hit = surface.Hit{Point: point, SurfaceType: surface.TypeFloor, Distance: ray.Origin.Distance(point)}
	}

	c := Candidate{
		Valid:    true,
		Position: hit.Point,
		Rotation: defaultRotation(item, 0),
		Hit:      hit,
	}

	switch hit.SurfaceType {
	case surface.TypeItem:
		c.ParentSurfaceID = hit.SurfaceID
		c.ParentSurfaceType = catalog.ParentItem
	default:
		c.ParentSurfaceType = catalog.ParentFloor
	}
	return c
}

// resolveWall raycasts registered wall meshes only and derives the pose from
// the wall's true world-space normal. Polygon walls sit at arbitrary angles,
// so the normal comes from the live frame, never from a cardinal label.
func resolveWall(item *catalog.Item, ray picking.Ray, cameraPos math.Vec3, scn *scene.Scene) Candidate {
	hit, ok := scn.Registry().RaycastWalls(ray)
	if !ok {
		return Candidate{}
	}
	seg := scn.Segment(hit.SurfaceID)
	if seg == nil {
		return Candidate{}
	}

	normal := seg.Normal()
	facing := 1
	// Face the viewer: flip when the outward normal points away from the camera.
	if normal.Dot(cameraPos.Sub(hit.Point)) < 0 {
		normal = normal.Neg()
		facing = -1
	}

	normalOffset := item.Dimensions.Depth/2 + WallBuffer
	position := hit.Point.Add(normal.Scale(normalOffset))
	yaw := math.WrapAngle(math.Atan2(normal.X, normal.Z) + gomath.Pi)

	// Store the full wall-relative conversion so the pose survives floorplan
	// edits; lateral comes from the hit, not a fixed zero.
	rel := coords.WorldToWallRelative(position, seg.Frame())
	wall := &catalog.WallPlacement{
		RoomID:       seg.RoomID,
		WallID:       seg.ID,
		Facing:       facing,
		Height:       hit.Point.Y,
		Lateral:      rel.Lateral,
		NormalOffset: normalOffset,
	}

	return Candidate{
		Valid:    true,
		Position: position,
		Rotation: defaultRotation(item, yaw),
		Hit:      hit,
		Wall:     wall,
	}
}

// resolveCeiling intersects an analytic ceiling plane at room height minus a
// clearance and flips the item to hang downward.
func resolveCeiling(item *catalog.Item, ray picking.Ray, roomHeight float32) Candidate {
	if roomHeight <= 0 {
		return Candidate{}
	}
	planeY := roomHeight - CeilingClearance

	point, _, ok := ray.IntersectPlane(math.Vec3{Y: planeY}, math.Vec3{Y: 1})
	if !ok {
		// The plane may face away from the ray; try the flipped normal.
		point, _, ok = ray.IntersectPlane(math.Vec3{Y: planeY}, math.Vec3{Y: -1})
		if !ok {
			return Candidate{}
		}
	}

	rot := defaultRotation(item, 0)
	rot.X = math.WrapAngle(rot.X + gomath.Pi)

	return Candidate{
		Valid:    true,
		Position: point,
		Rotation: rot,
		Hit:      surface.Hit{Point: point, SurfaceType: surface.TypeFloor},
	}
}

// defaultRotation combines the placement-derived yaw with the item's own
// default rotation on x/z.
func defaultRotation(item *catalog.Item, yaw float32) math.Vec3 {
	rot := math.Vec3{Y: yaw}
	if item.DefaultRotation != nil {
		rot.X = item.DefaultRotation.X
		rot.Z = item.DefaultRotation.Z
	}
	return rot
}
