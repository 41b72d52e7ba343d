// Package catalog defines the item template and item instance data model.
// Items are reusable 3D templates with real-world target dimensions; an
// instance is one placed occurrence of an item within a room.
package catalog

import (
	"github.com/Faultbox/roomforge/pkg/math"
)

// PlacementType declares which surface kind an item mounts to.
type PlacementType string

const (
	PlacementFloor   PlacementType = "floor"
	PlacementWall    PlacementType = "wall"
	PlacementCeiling PlacementType = "ceiling"
)

// ParentSurfaceType identifies what an instance is stacked on.
type ParentSurfaceType string

const (
	ParentFloor ParentSurfaceType = "floor"
	ParentItem  ParentSurfaceType = "item"
)

// Dimensions are target real-world sizes in feet. They describe the item as
// the user sees it in the preview, i.e. after the default rotation is applied
// to the raw asset, not the raw asset's bounding box.
type Dimensions struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Depth  float32 `yaml:"depth"`
}

// DefaultRotation is applied to the raw asset before dimension measurement.
type DefaultRotation struct {
	X float32 `yaml:"x"`
	Z float32 `yaml:"z"`
}

// ParametricShape procedurally defines geometry for items without a mesh file.
type ParametricShape struct {
	Kind string `yaml:"kind"` // "box" or "cylinder"
}

// Item is a reusable 3D template.
type Item struct {
	ID              string           `yaml:"id"`
	Name            string           `yaml:"name"`
	ModelRef        string           `yaml:"model,omitempty"` // path to a mesh file
	Dimensions      Dimensions       `yaml:"dimensions"`
	Placement       PlacementType    `yaml:"placement"`
	DefaultRotation *DefaultRotation `yaml:"default_rotation,omitempty"`
	Parametric      *ParametricShape `yaml:"parametric,omitempty"`
	// SurfaceTop marks the item's top face as a placeable surface for other
	// floor items (rugs, shelves, tables).
	SurfaceTop bool `yaml:"surface_top,omitempty"`
}

// WallPlacement expresses an instance's pose relative to one wall of one
// room, independent of that wall's absolute orientation. Populated only when
// the backing item's placement type is wall.
type WallPlacement struct {
	RoomID string
	WallID string
	// Facing is +1 when the instance hangs on the segment's normal side,
	// -1 on the opposite side. Polygon walls have no cardinal names.
	Facing int
	// Height is the distance from the floor to the mount point, feet.
	Height float32
	// Lateral is the offset along the wall from the segment start, feet.
	Lateral float32
	// NormalOffset is the distance off the wall face, feet.
	NormalOffset float32
}

// Instance is one placed occurrence of an item. Position is room-local feet;
// rotation is radians. ItemID is a weak reference: lookup only, never
// ownership, so a dangling reference is recoverable data, not corruption.
type Instance struct {
	ID       string
	ItemID   string
	RoomID   string
	Position math.Vec3
	Rotation math.Vec3
	// ScaleMultiplier is a user override applied on top of auto-scale.
	ScaleMultiplier math.Vec3
	Wall            *WallPlacement
	// ParentSurfaceID is set when the instance rests on a registered
	// surface. When the parent is an item (not the floor), Position is
	// relative to that surface's world position.
	ParentSurfaceID   string
	ParentSurfaceType ParentSurfaceType
}

// NewInstance returns an instance with the identity scale multiplier.
func NewInstance(id, itemID, roomID string, pos math.Vec3) *Instance {
	return &Instance{
		ID:              id,
		ItemID:          itemID,
		RoomID:          roomID,
		Position:        pos,
		ScaleMultiplier: math.Vec3{X: 1, Y: 1, Z: 1},
	}
}
