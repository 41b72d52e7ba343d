package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/coords"
	"github.com/Faultbox/roomforge/internal/engine/dimension"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Pose is the resolved world transform of an instance. The render transform
// composes Translate(Position) * Rotate(Rotation) * Translate(FitOffset) *
// Scale(Scale): scaling happens before the bottom-centering offset, which
// happens before placement.
type Pose struct {
	Position    math.Vec3
	Rotation    math.Vec3
	Scale       math.Vec3
	FitOffset   math.Vec3
	WorldBounds picking.AABB
}

// InstancePose resolves an instance's world pose. It is pure with respect to
// the coordinate math: the same instance, item, bounds, and floorplan always
// yield the same pose, so re-measuring a resolved asset never jitters an
// already-placed instance.
func (s *Scene) InstancePose(item *catalog.Item, inst *catalog.Instance) Pose {
	natural := s.bounds.NaturalBounds(item)
	fit := dimension.Compute(natural, item.Dimensions)

	scale := fit.Scale.Mul(inst.ScaleMultiplier)
	fitOffset := fit.Offset.Mul(inst.ScaleMultiplier)

	pose := Pose{
		Rotation:  inst.Rotation,
		Scale:     scale,
		FitOffset: fitOffset,
	}
	pose.Position = s.resolvePosition(inst)
	fitted := natural.ScaleBy(scale).Translate(fitOffset)
	pose.WorldBounds = orientedBounds(fitted, pose.Rotation).Translate(pose.Position)
	return pose
}

// orientedBounds returns the axis-aligned cover of the box under the instance
// rotation, so picking tracks what is drawn. A rotated thin item no longer
// picks against its unrotated footprint.
func orientedBounds(box picking.AABB, rotation math.Vec3) picking.AABB {
	if rotation == (math.Vec3{}) {
		return box
	}
	rot := math.RotateY(rotation.Y).
		Mul(math.RotateX(rotation.X)).
		Mul(math.RotateZ(rotation.Z))

	corners := [8]math.Vec3{
		{X: box.Min.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Max.Z},
	}
	min := rot.TransformVec3(corners[0])
	max := min
	for _, c := range corners[1:] {
		p := rot.TransformVec3(c)
		min = minVec(min, p)
		max = maxVec(max, p)
	}
	return picking.AABB{Min: min, Max: max}
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

// resolvePosition maps the instance's stored placement to a world position.
func (s *Scene) resolvePosition(inst *catalog.Instance) math.Vec3 {
	// Wall-relative placement survives floorplan edits by resolving against
	// the wall's live frame.
	if inst.Wall != nil {
		if seg := s.Segment(inst.Wall.WallID); seg != nil {
			return coords.WallRelativeToWorld(inst.Wall, seg.Frame())
		}
		logger.Warn("wall placement references missing segment, using room-local position",
			zap.String("instance", inst.ID),
			zap.String("wall", inst.Wall.WallID))
	}

	// Stacked on another item: stored position is surface-relative.
	if inst.ParentSurfaceType == catalog.ParentItem && inst.ParentSurfaceID != "" {
		if parent := s.nodes[inst.ParentSurfaceID]; parent != nil {
			return parent.Position.Add(inst.Position)
		}
		logger.Warn("parent surface not mounted, using room-local position",
			zap.String("instance", inst.ID),
			zap.String("parent", inst.ParentSurfaceID))
	}

	// Room-local.
	if s.plan != nil {
		if room := s.plan.RoomByID(inst.RoomID); room != nil {
			return coords.RoomLocalToWorld(inst.Position, room)
		}
	}
	return inst.Position
}
