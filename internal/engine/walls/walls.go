// Package walls converts 2D floorplan vertices and wall-segment descriptors
// into 3D wall meshes with door-shaped openings. Segments from adjacent rooms
// that occupy the same physical wall are detected by position and length
// tolerance and merged to share one door set, so a doorway cut from either
// room is visible on both renderings of that wall.
package walls

import (
	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/engine/coords"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/floorplan"
	"github.com/Faultbox/roomforge/pkg/math"
)

const (
	// MinDoorCornerDistance keeps a door's span away from the wall ends, feet.
	MinDoorCornerDistance = 0.5

	// SharedWallCenterTolerance and SharedWallLengthTolerance decide when two
	// segments are the same physical wall. Heuristic: dense floorplans with
	// closely spaced parallel walls may need these tightened.
	SharedWallCenterTolerance = 2.0
	SharedWallLengthTolerance = 1.0

	// doorMatchTolerance decides whether two doors on a shared wall are the
	// same opening, feet.
	doorMatchTolerance = 0.25

	// minSegmentLength below which a segment is degenerate and skipped.
	minSegmentLength = 1e-3

	// sharedDoorSuffix marks synthetic door copies injected by door sharing.
	sharedDoorSuffix = "-shared"
)

var up = math.Vec3{Y: 1}

// ComputedSegment is the derived 3D form of a wall segment. It is recomputed
// on every floorplan change; the only in-place mutation is the injection of
// synthetic door copies during shared-wall merging.
type ComputedSegment struct {
	floorplan.WallSegment

	// Start and End are the 3D endpoints at floor level, recentered by the
	// plan's global center offset.
	Start math.Vec3
	End   math.Vec3
	// Position3D is the midpoint at floor level.
	Position3D math.Vec3
	RotationY  float32
	Length     float32
	Height     float32
}

// Tangent returns the unit vector from Start toward End.
func (s *ComputedSegment) Tangent() math.Vec3 {
	return s.End.Sub(s.Start).Normalize()
}

// Normal returns the unit normal of the segment's primary (side A) face.
func (s *ComputedSegment) Normal() math.Vec3 {
	return up.Cross(s.Tangent())
}

// Frame returns the wall's live basis for wall-relative coordinates.
func (s *ComputedSegment) Frame() coords.WallFrame {
	return coords.WallFrame{
		WallID:  s.ID,
		RoomID:  s.RoomID,
		Origin:  s.Start,
		Tangent: s.Tangent(),
		Normal:  s.Normal(),
	}
}

// globalCenter returns the single recentering offset shared by every segment:
// the midpoint of the bounding box over all plan vertices. Recentering once,
// globally, keeps overlapping segments from different rooms coincident.
func globalCenter(vertices []floorplan.Point) math.Vec2 {
	if len(vertices) == 0 {
		return math.Vec2{}
	}
	minV := vertices[0]
	maxV := vertices[0]
	for _, v := range vertices[1:] {
		if v.X < minV.X {
			minV.X = v.X
		}
		if v.Y < minV.Y {
			minV.Y = v.Y
		}
		if v.X > maxV.X {
			maxV.X = v.X
		}
		if v.Y > maxV.Y {
			maxV.Y = v.Y
		}
	}
	return math.Vec2{X: (minV.X + maxV.X) / 2, Y: (minV.Y + maxV.Y) / 2}
}

// Synthesize computes 3D segments for the whole plan and merges door sets
// across physically coincident walls. Degenerate zero-length segments are
// skipped; their siblings still render.
func Synthesize(plan *floorplan.Plan) []*ComputedSegment {
	center := globalCenter(plan.Vertices)

	segments := make([]*ComputedSegment, 0, len(plan.Segments))
	for _, seg := range plan.Segments {
		if seg.A < 0 || seg.A >= len(plan.Vertices) || seg.B < 0 || seg.B >= len(plan.Vertices) {
			logger.Warn("wall segment references missing vertex, skipping",
				zap.String("segment", seg.ID))
			continue
		}

		a := plan.Vertices[seg.A]
		b := plan.Vertices[seg.B]
		start := math.Vec3{X: a.X - center.X, Z: a.Y - center.Y}
		end := math.Vec3{X: b.X - center.X, Z: b.Y - center.Y}

		length := start.Distance(end)
		if length < minSegmentLength {
			logger.Warn("zero-length wall segment, skipping",
				zap.String("segment", seg.ID))
			continue
		}

		height := float32(floorplan.DefaultWallHeight)
		if room := plan.RoomByID(seg.RoomID); room != nil {
			height = room.CeilingHeight()
		}

		delta := end.Sub(start)
		cs := &ComputedSegment{
			WallSegment: seg,
			Start:       start,
			End:         end,
			Position3D:  start.Add(end).Scale(0.5),
			RotationY:   math.WrapAngle(math.Atan2(delta.X, delta.Z)),
			Length:      length,
			Height:      height,
		}
		// Deep-copy doors so sharing never mutates the source plan.
		cs.Doors = append([]floorplan.Door(nil), seg.Doors...)

		segments = append(segments, cs)
	}

	shareDoors(segments)
	return segments
}

// shareDoors unions door sets across segments that occupy the same physical
// wall. A doorway is one physical hole even though each room's wall is
// represented independently.
func shareDoors(segments []*ComputedSegment) {
	for _, group := range overlapGroups(segments) {
		if len(group) < 2 {
			continue
		}
		for _, target := range group {
			for _, source := range group {
				if source == target {
					continue
				}
				injectDoors(target, source)
			}
		}
	}
}

// overlapGroups partitions segments into groups of physically coincident
// walls using union-find over the position and length tolerances.
func overlapGroups(segments []*ComputedSegment) [][]*ComputedSegment {
	parent := make([]int, len(segments))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := 0; i < len(segments); i++ {
		for j := i + 1; j < len(segments); j++ {
			if samePhysicalWall(segments[i], segments[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	byRoot := make(map[int][]*ComputedSegment)
	for i, seg := range segments {
		root := find(i)
		byRoot[root] = append(byRoot[root], seg)
	}

	groups := make([][]*ComputedSegment, 0, len(byRoot))
	for _, g := range byRoot {
		groups = append(groups, g)
	}
	return groups
}

func samePhysicalWall(a, b *ComputedSegment) bool {
	return a.Position3D.Distance(b.Position3D) <= SharedWallCenterTolerance &&
		math.Abs(a.Length-b.Length) <= SharedWallLengthTolerance
}

// injectDoors copies every door of source that target lacks, as a synthetic
// door with a suffixed id. When the two segments run in opposite directions
// the door position is mirrored, since door positions are measured from each
// segment's own start vertex.
func injectDoors(target, source *ComputedSegment) {
	mirrored := target.Tangent().Dot(source.Tangent()) < 0

	for _, door := range source.Doors {
		pos := door.Position
		if mirrored {
			pos = target.Length - door.Position - door.Width
		}

		if hasMatchingDoor(target.Doors, pos, door.Width, door.Height) {
			continue
		}

		target.Doors = append(target.Doors, floorplan.Door{
			ID:       door.ID + sharedDoorSuffix,
			Position: pos,
			Width:    door.Width,
			Height:   door.Height,
		})
		logger.Debug("shared wall door injected",
			zap.String("target", target.ID),
			zap.String("source", source.ID),
			zap.String("door", door.ID))
	}
}

func hasMatchingDoor(doors []floorplan.Door, pos, width, height float32) bool {
	for _, d := range doors {
		if math.Abs(d.Position-pos) <= doorMatchTolerance &&
			math.Abs(d.Width-width) <= doorMatchTolerance &&
			math.Abs(d.Height-height) <= doorMatchTolerance {
			return true
		}
	}
	return false
}
