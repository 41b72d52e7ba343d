// Package scene owns the live 3D state of a loaded floorplan: synthesized
// wall segments, mounted item instances, and their registration with the
// surface registry. Mounting is idempotent; floorplan edits remount freely.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/surface"
	"github.com/Faultbox/roomforge/internal/engine/walls"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/floorplan"
	"github.com/Faultbox/roomforge/pkg/math"
)

// ItemSource resolves item templates. Lookup only; the scene never owns items.
type ItemSource interface {
	GetItem(id string) (*catalog.Item, bool)
}

// BoundsSource yields an item's natural bounding box, measured after the
// item's default rotation. Implementations return placeholder bounds until
// the real mesh resolves.
type BoundsSource interface {
	NaturalBounds(item *catalog.Item) picking.AABB
}

// Node is the live renderable transform of one mounted instance. During a
// drag the position is written here directly, bypassing the committed model,
// so a move costs no store round-trip per frame.
type Node struct {
	Instance *catalog.Instance

	// World-space anchor and pose.
	Position  math.Vec3
	Rotation  math.Vec3
	Scale     math.Vec3
	FitOffset math.Vec3

	// WorldBounds is the axis-aligned cover of the fitted, rotated,
	// translated box, used for picking and item-surface registration.
	WorldBounds picking.AABB
}

// Scene holds everything mounted for one floorplan.
type Scene struct {
	items    ItemSource
	bounds   BoundsSource
	registry *surface.Registry

	plan     *floorplan.Plan
	segments []*walls.ComputedSegment
	meshes   map[string]*walls.Mesh
	nodes    map[string]*Node
}

// New creates an empty scene backed by the given sources.
func New(items ItemSource, bounds BoundsSource, registry *surface.Registry) *Scene {
	return &Scene{
		items:    items,
		bounds:   bounds,
		registry: registry,
		meshes:   make(map[string]*walls.Mesh),
		nodes:    make(map[string]*Node),
	}
}

// Registry returns the surface registry the scene mounts into.
func (s *Scene) Registry() *surface.Registry {
	return s.registry
}

// Plan returns the loaded floorplan, or nil.
func (s *Scene) Plan() *floorplan.Plan {
	return s.plan
}

// Segments returns the synthesized wall segments.
func (s *Scene) Segments() []*walls.ComputedSegment {
	return s.segments
}

// Meshes returns the wall meshes keyed by segment id.
func (s *Scene) Meshes() map[string]*walls.Mesh {
	return s.meshes
}

// Nodes returns the mounted instance nodes keyed by instance id.
func (s *Scene) Nodes() map[string]*Node {
	return s.nodes
}

// Node returns the node for an instance id, or nil.
func (s *Scene) Node(id string) *Node {
	return s.nodes[id]
}

// Segment returns the computed segment with the given id, or nil.
func (s *Scene) Segment(id string) *walls.ComputedSegment {
	for _, seg := range s.segments {
		if seg.ID == id {
			return seg
		}
	}
	return nil
}

// LoadPlan synthesizes wall geometry for the plan and registers floor and
// wall surfaces. Mounted instances are re-posed against the new geometry, so
// wall-relative placements survive floorplan edits.
func (s *Scene) LoadPlan(plan *floorplan.Plan) {
	// Drop surfaces belonging to the previous plan.
	for _, seg := range s.segments {
		s.registry.Unregister(seg.ID)
	}
	if s.plan != nil {
		for _, room := range s.plan.Rooms {
			s.registry.Unregister(floorSurfaceID(room.ID))
		}
	}

	s.plan = plan
	s.segments = walls.Synthesize(plan)
	s.meshes = make(map[string]*walls.Mesh, len(s.segments))

	for _, room := range plan.Rooms {
		s.registry.Register(surface.Surface{
			ID:     floorSurfaceID(room.ID),
			Type:   surface.TypeFloor,
			RoomID: room.ID,
			FloorY: room.Position.Y,
		})
	}

	for _, seg := range s.segments {
		s.meshes[seg.ID] = walls.BuildMesh(seg)
		s.registry.Register(surface.Surface{
			ID:     seg.ID,
			Type:   surface.TypeWall,
			RoomID: seg.RoomID,
			Wall: picking.Rect{
				Center:     seg.Position3D.Add(math.Vec3{Y: seg.Height / 2}),
				Tangent:    seg.Tangent(),
				Up:         math.Vec3{Y: 1},
				HalfWidth:  seg.Length / 2,
				HalfHeight: seg.Height / 2,
			},
		})
	}

	for _, node := range s.nodes {
		s.refreshNode(node)
	}

	logger.Info("floorplan loaded",
		zap.Int("rooms", len(plan.Rooms)),
		zap.Int("walls", len(s.segments)))
}

// Mount adds an instance to the scene. A dangling item reference skips the
// mount with a diagnostic; the instance is never deleted, so the data is
// recoverable if the item reappears.
func (s *Scene) Mount(inst *catalog.Instance) {
	item, ok := s.items.GetItem(inst.ItemID)
	if !ok {
		logger.Warn("instance references missing item, skipping render",
			zap.String("instance", inst.ID),
			zap.String("item", inst.ItemID))
		return
	}

	node := &Node{Instance: inst}
	s.nodes[inst.ID] = node
	s.poseNode(node, item)

	if item.SurfaceTop {
		s.registry.Register(surface.Surface{
			ID:     inst.ID,
			Type:   surface.TypeItem,
			RoomID: inst.RoomID,
			Top:    node.WorldBounds,
		})
	}
}

// Unmount removes an instance and its surface registration.
func (s *Scene) Unmount(instanceID string) {
	delete(s.nodes, instanceID)
	s.registry.Unregister(instanceID)
}

// Refresh re-poses one mounted instance after its committed state changed.
func (s *Scene) Refresh(instanceID string) {
	if node, ok := s.nodes[instanceID]; ok {
		s.refreshNode(node)
	}
}

func (s *Scene) refreshNode(node *Node) {
	item, ok := s.items.GetItem(node.Instance.ItemID)
	if !ok {
		logger.Warn("instance references missing item during refresh",
			zap.String("instance", node.Instance.ID))
		return
	}
	s.poseNode(node, item)
	if item.SurfaceTop {
		s.registry.Register(surface.Surface{
			ID:     node.Instance.ID,
			Type:   surface.TypeItem,
			RoomID: node.Instance.RoomID,
			Top:    node.WorldBounds,
		})
	}
}

func (s *Scene) poseNode(node *Node, item *catalog.Item) {
	pose := s.InstancePose(item, node.Instance)
	node.Position = pose.Position
	node.Rotation = pose.Rotation
	node.Scale = pose.Scale
	node.FitOffset = pose.FitOffset
	node.WorldBounds = pose.WorldBounds
}

// SetParent re-parents an instance onto a surface, rejecting assignments that
// would create a parent cycle (item A on B on A).
func (s *Scene) SetParent(inst *catalog.Instance, parentID string, parentType catalog.ParentSurfaceType) error {
	if parentType == catalog.ParentItem {
		seen := map[string]bool{inst.ID: true}
		cur := parentID
		for cur != "" {
			if seen[cur] {
				return fmt.Errorf("parent assignment would create a surface cycle through %q", cur)
			}
			seen[cur] = true
			node := s.nodes[cur]
			if node == nil || node.Instance.ParentSurfaceType != catalog.ParentItem {
				break
			}
			cur = node.Instance.ParentSurfaceID
		}
	}

	inst.ParentSurfaceID = parentID
	inst.ParentSurfaceType = parentType
	return nil
}

func floorSurfaceID(roomID string) string {
	return "floor:" + roomID
}
