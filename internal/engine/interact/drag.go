// Package interact moves already-placed instances: pointer drags with a
// press-move-release state machine, and keyboard nudges. During a drag the
// scene node is written directly each frame; the committed model is updated
// exactly once, on release.
package interact

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/coords"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/placement"
	"github.com/Faultbox/roomforge/internal/engine/scene"
	"github.com/Faultbox/roomforge/internal/engine/surface"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

const (
	// DragThreshold is how far the pointer's floor projection must travel
	// before a press becomes a drag, feet. Below it a release is a click.
	DragThreshold = 0.1

	// NudgeStep is the arrow-key move distance, feet.
	NudgeStep = 0.5
)

type dragState int

const (
	stateIdle dragState = iota
	stateArmed
	stateDragging
)

// pending buffers the model fields a drag will commit. Written every move,
// flushed once on release.
type pending struct {
	position math.Vec3 // world
	yaw      float32
	wall     *catalog.WallPlacement
}

// Dragger is the single drag controller for a scene. Pointer-up arrives from
// both the picked object and the window (the pointer can leave the object
// mid-drag); the committed flag makes the commit fire exactly once.
type Dragger struct {
	scene *scene.Scene
	items scene.ItemSource
	store placement.Store

	state      dragState
	instanceID string
	item       *catalog.Item

	// gridSnap rounds committed floor positions to this pitch in feet.
	// Zero disables snapping. Wall items never snap.
	gridSnap float32

	pressPoint math.Vec3 // floor projection at press
	grabOffset math.Vec3 // node position minus pointer floor projection
	origin     math.Vec3 // node position at press, for cancel
	committed  bool
	pend       pending
}

// NewDragger creates an idle drag controller.
func NewDragger(scn *scene.Scene, items scene.ItemSource, store placement.Store) *Dragger {
	return &Dragger{scene: scn, items: items, store: store}
}

// SetGridSnap sets the commit grid pitch in feet. Zero disables snapping.
func (d *Dragger) SetGridSnap(pitch float32) {
	d.gridSnap = pitch
}

// Dragging reports whether a drag is past the threshold.
func (d *Dragger) Dragging() bool {
	return d.state == stateDragging
}

// PointerDown arms a potential drag on the instance under the pointer. Floor
// items measure their grab offset on the floor plane so the item does not
// jump to the cursor on the first move; wall items anchor on the wall hit.
func (d *Dragger) PointerDown(instanceID string, ray picking.Ray) {
	node := d.scene.Node(instanceID)
	if node == nil {
		return
	}
	item, ok := d.items.GetItem(node.Instance.ItemID)
	if !ok {
		logger.Warn("drag on instance with missing item",
			zap.String("instance", instanceID))
		return
	}

	if item.Placement == catalog.PlacementWall {
		hit, ok := d.scene.Registry().RaycastWalls(ray)
		if !ok {
			return
		}
		d.pressPoint = hit.Point
	} else {
		point, ok := ray.IntersectPlaneY(0)
		if !ok {
			return
		}
		d.pressPoint = point
		d.grabOffset = node.Position.Sub(point)
	}

	d.state = stateArmed
	d.instanceID = instanceID
	d.item = item
	d.origin = node.Position
	d.committed = false
	d.pend = pending{position: node.Position, yaw: node.Rotation.Y, wall: node.Instance.Wall}
}

// PointerMove advances an armed press into a drag once the pointer's surface
// projection moves past the threshold, then follows the pointer. Wall items
// track wall surfaces and re-derive their pose from whichever segment is hit;
// floor and ceiling items slide on their original plane.
func (d *Dragger) PointerMove(ray picking.Ray, cameraPos math.Vec3) {
	if d.state == stateIdle {
		return
	}
	node := d.scene.Node(d.instanceID)
	if node == nil {
		d.reset()
		return
	}

	if d.item.Placement == catalog.PlacementWall {
		hit, ok := d.scene.Registry().RaycastWalls(ray)
		if !ok {
			return
		}
		if d.state == stateArmed {
			if hit.Point.Distance(d.pressPoint) < DragThreshold {
				return
			}
			d.state = stateDragging
		}
		d.moveOnWalls(node, hit, cameraPos)
		return
	}

	point, ok := ray.IntersectPlaneY(0)
	if !ok {
		return
	}
	if d.state == stateArmed {
		if point.Distance(d.pressPoint) < DragThreshold {
			return
		}
		d.state = stateDragging
	}

	// Slide on the item's own horizontal plane, preserving height.
	pos := point.Add(d.grabOffset)
	pos.Y = d.origin.Y
	node.WorldBounds = node.WorldBounds.Translate(pos.Sub(d.pend.position))
	node.Position = pos
	d.pend.position = pos
}

// moveOnWalls slides a wall item across wall segments. Crossing onto a
// different segment re-parents the placement and recomputes the yaw from the
// new wall's normal, so the item always lies flat against whatever wall it is
// on.
func (d *Dragger) moveOnWalls(node *scene.Node, hit surface.Hit, cameraPos math.Vec3) {
	seg := d.scene.Segment(hit.SurfaceID)
	if seg == nil {
		return
	}

	normal := seg.Normal()
	facing := 1
	if normal.Dot(cameraPos.Sub(hit.Point)) < 0 {
		normal = normal.Neg()
		facing = -1
	}

	offset := d.item.Dimensions.Depth/2 + placement.WallBuffer
	if node.Instance.Wall != nil && node.Instance.Wall.NormalOffset > 0 {
		offset = node.Instance.Wall.NormalOffset
	}

	pos := hit.Point.Add(normal.Scale(offset))
	yaw := math.WrapAngle(math.Atan2(normal.X, normal.Z) + gomath.Pi)

	rel := coords.WorldToWallRelative(pos, seg.Frame())
	wall := &catalog.WallPlacement{
		RoomID:       seg.RoomID,
		WallID:       seg.ID,
		Facing:       facing,
		Height:       hit.Point.Y,
		Lateral:      rel.Lateral,
		NormalOffset: offset,
	}

	node.WorldBounds = node.WorldBounds.Translate(pos.Sub(d.pend.position))
	node.Position = pos
	node.Rotation.Y = yaw
	d.pend = pending{position: pos, yaw: yaw, wall: wall}
}

// PointerUp ends the press. A sub-threshold press is a click and commits
// nothing. Both the object handler and the window handler call this; only the
// first call past the threshold commits.
func (d *Dragger) PointerUp() {
	if d.state == stateIdle {
		return
	}
	if d.state == stateArmed {
		d.reset()
		return
	}
	if !d.committed {
		d.committed = true
		d.commit()
	}
	d.reset()
}

// Cancel reverts an in-flight drag to the committed pose.
func (d *Dragger) Cancel() {
	if d.state == stateDragging {
		d.scene.Refresh(d.instanceID)
	}
	d.reset()
}

// Nudge moves the instance by whole steps and commits immediately. Floor and
// ceiling items step on the floor plane; wall items step along their wall's
// tangent and up its face. dx/dz are step counts, not distances. Ignored
// while a press or drag is in flight, so a drag still commits exactly once,
// on release.
func (d *Dragger) Nudge(instanceID string, dx, dz int) {
	if d.state != stateIdle {
		return
	}
	node := d.scene.Node(instanceID)
	if node == nil {
		return
	}
	item, ok := d.items.GetItem(node.Instance.ItemID)
	if !ok {
		return
	}

	d.instanceID = instanceID
	d.item = item
	if item.Placement == catalog.PlacementWall {
		d.nudgeOnWall(node, dx, dz)
	} else {
		delta := math.Vec3{X: float32(dx) * NudgeStep, Z: float32(dz) * NudgeStep}
		d.pend = pending{
			position: node.Position.Add(delta),
			yaw:      node.Rotation.Y,
			wall:     node.Instance.Wall,
		}
		node.Position = d.pend.position
		d.commit()
	}
	d.instanceID = ""
	d.item = nil
}

// nudgeOnWall steps a wall item laterally along its segment and vertically up
// or down its face. dz follows the floor mapping, so the "away" arrow moves
// the item up. Steps that would leave the wall face are ignored.
func (d *Dragger) nudgeOnWall(node *scene.Node, dx, dz int) {
	wp := node.Instance.Wall
	if wp == nil {
		return
	}
	seg := d.scene.Segment(wp.WallID)
	if seg == nil {
		return
	}

	pos := node.Position.
		Add(seg.Tangent().Scale(float32(dx) * NudgeStep)).
		Add(math.Vec3{Y: float32(-dz) * NudgeStep})
	rel := coords.WorldToWallRelative(pos, seg.Frame())
	if rel.Lateral < 0 || rel.Lateral > seg.Length || rel.Height < 0 || rel.Height > seg.Height {
		return
	}

	wall := *wp
	wall.Lateral = rel.Lateral
	wall.Height = rel.Height
	node.Position = pos
	d.pend = pending{position: pos, yaw: node.Rotation.Y, wall: &wall}
	d.commit()
}

// commit flushes the pending pose to the store and re-poses the node from the
// committed model, so drag state and persisted state cannot diverge.
func (d *Dragger) commit() {
	id := d.instanceID
	node := d.scene.Node(id)
	if node == nil {
		return
	}

	if d.gridSnap > 0 && d.item.Placement != catalog.PlacementWall {
		d.pend.position.X = snap(d.pend.position.X, d.gridSnap)
		d.pend.position.Z = snap(d.pend.position.Z, d.gridSnap)
		node.Position = d.pend.position
	}

	stored := d.storedPosition(node)
	err := d.store.UpdateInstance(id, func(inst *catalog.Instance) {
		inst.Position = stored
		inst.Rotation.Y = d.pend.yaw
		if d.item.Placement == catalog.PlacementWall {
			inst.Wall = d.pend.wall
		}
	})
	if err != nil {
		logger.Error("drag commit failed", zap.String("instance", id), zap.Error(err))
		d.scene.Refresh(id)
		return
	}

	d.scene.Refresh(id)
	logger.Debug("instance moved", zap.String("instance", id))
}

// storedPosition converts the final world position into the model's stored
// form. An item dragged off its parent surface drops back onto the floor.
func (d *Dragger) storedPosition(node *scene.Node) math.Vec3 {
	inst := node.Instance
	pos := d.pend.position

	if inst.ParentSurfaceType == catalog.ParentItem && inst.ParentSurfaceID != "" {
		if parent, ok := d.scene.Registry().Get(inst.ParentSurfaceID); ok && overTop(pos, parent.Top) {
			if pnode := d.scene.Node(inst.ParentSurfaceID); pnode != nil {
				return coords.SurfaceRelative(pos, pnode.Position)
			}
		}
		if err := d.scene.SetParent(inst, "", catalog.ParentFloor); err != nil {
			logger.Warn("unparent failed", zap.String("instance", inst.ID), zap.Error(err))
		}
	}

	if plan := d.scene.Plan(); plan != nil {
		if room := plan.RoomByID(inst.RoomID); room != nil {
			return coords.WorldToRoomLocal(pos, room)
		}
	}
	return pos
}

func snap(v, pitch float32) float32 {
	return float32(gomath.Round(float64(v/pitch))) * pitch
}

func overTop(pos math.Vec3, top picking.AABB) bool {
	return pos.X >= top.Min.X && pos.X <= top.Max.X &&
		pos.Z >= top.Min.Z && pos.Z <= top.Max.Z
}

func (d *Dragger) reset() {
	d.state = stateIdle
	d.instanceID = ""
	d.item = nil
	d.committed = false
	d.pend = pending{}
}
