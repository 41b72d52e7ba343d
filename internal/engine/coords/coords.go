// Package coords converts points between the engine's coordinate frames:
// world space, a room's local space (world = local + room offset), and
// wall-relative space (lateral offset along a wall, height from the floor,
// and offset off the wall face).
//
// Frames are plain structs with explicit, total conversion functions; there
// is no polymorphic position type.
package coords

import (
	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/pkg/floorplan"
	"github.com/Faultbox/roomforge/pkg/math"
)

// up is the world up axis. Walls are always vertical.
var up = math.Vec3{Y: 1}

// RoomLocalToWorld converts a room-local point to world space.
func RoomLocalToWorld(local math.Vec3, room *floorplan.Room) math.Vec3 {
	return local.Add(room.Position)
}

// WorldToRoomLocal converts a world point to room-local space.
func WorldToRoomLocal(world math.Vec3, room *floorplan.Room) math.Vec3 {
	return world.Sub(room.Position)
}

// WallFrame is the live basis of one wall: its start vertex at floor level,
// the unit tangent running toward the end vertex, and the unit normal of its
// primary face. Walls from freeform polygon edges sit at arbitrary yaw, so
// the basis is derived from the wall's actual transform, never from a
// cardinal-direction label.
type WallFrame struct {
	WallID  string
	RoomID  string
	Origin  math.Vec3
	Tangent math.Vec3
	Normal  math.Vec3
}

// WallRelativeToWorld resolves a wall placement to a world position:
// origin + tangent*lateral + up*height + facing*normal*normalOffset.
func WallRelativeToWorld(p *catalog.WallPlacement, frame WallFrame) math.Vec3 {
	facing := float32(1)
	if p.Facing < 0 {
		facing = -1
	}
	return frame.Origin.
		Add(frame.Tangent.Scale(p.Lateral)).
		Add(up.Scale(p.Height)).
		Add(frame.Normal.Scale(facing * p.NormalOffset))
}

// WorldToWallRelative projects a world point onto the wall's basis to recover
// the three relative scalars. NormalOffset is kept non-negative; Facing
// carries the side sign.
func WorldToWallRelative(point math.Vec3, frame WallFrame) catalog.WallPlacement {
	d := point.Sub(frame.Origin)

	placement := catalog.WallPlacement{
		RoomID:       frame.RoomID,
		WallID:       frame.WallID,
		Facing:       1,
		Lateral:      d.Dot(frame.Tangent),
		Height:       d.Dot(up),
		NormalOffset: d.Dot(frame.Normal),
	}
	if placement.NormalOffset < 0 {
		placement.Facing = -1
		placement.NormalOffset = -placement.NormalOffset
	}
	return placement
}

// SurfaceRelative converts a world hit point to a position relative to a
// parent surface's world position (used when stacking an item on another
// item's surface).
func SurfaceRelative(point, surfaceWorld math.Vec3) math.Vec3 {
	return point.Sub(surfaceWorld)
}
