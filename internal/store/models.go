package store

import (
	"time"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/pkg/math"
)

// itemModel is the database schema for a catalog item.
type itemModel struct {
	ID       string `gorm:"primaryKey"`
	Name     string
	ModelRef string

	Width  float32
	Height float32
	Depth  float32

	Placement  string
	SurfaceTop bool

	HasRotation bool
	RotX        float32
	RotZ        float32

	ParametricKind string

	UpdatedAt time.Time
}

func (itemModel) TableName() string { return "items" }

// instanceModel is the database schema for a placed instance.
type instanceModel struct {
	ID     string `gorm:"primaryKey"`
	ItemID string `gorm:"index"`
	RoomID string `gorm:"index"`

	PosX, PosY, PosZ       float32
	RotX, RotY, RotZ       float32
	ScaleX, ScaleY, ScaleZ float32

	OnWall           bool
	WallRoomID       string
	WallID           string
	WallFacing       int
	WallHeight       float32
	WallLateral      float32
	WallNormalOffset float32

	ParentSurfaceID   string
	ParentSurfaceType string

	UpdatedAt time.Time
}

func (instanceModel) TableName() string { return "instances" }

func itemToModel(item *catalog.Item) itemModel {
	m := itemModel{
		ID:         item.ID,
		Name:       item.Name,
		ModelRef:   item.ModelRef,
		Width:      item.Dimensions.Width,
		Height:     item.Dimensions.Height,
		Depth:      item.Dimensions.Depth,
		Placement:  string(item.Placement),
		SurfaceTop: item.SurfaceTop,
	}
	if item.DefaultRotation != nil {
		m.HasRotation = true
		m.RotX = item.DefaultRotation.X
		m.RotZ = item.DefaultRotation.Z
	}
	if item.Parametric != nil {
		m.ParametricKind = item.Parametric.Kind
	}
	return m
}

func modelToItem(m *itemModel) *catalog.Item {
	item := &catalog.Item{
		ID:         m.ID,
		Name:       m.Name,
		ModelRef:   m.ModelRef,
		Dimensions: catalog.Dimensions{Width: m.Width, Height: m.Height, Depth: m.Depth},
		Placement:  catalog.PlacementType(m.Placement),
		SurfaceTop: m.SurfaceTop,
	}
	if m.HasRotation {
		item.DefaultRotation = &catalog.DefaultRotation{X: m.RotX, Z: m.RotZ}
	}
	if m.ParametricKind != "" {
		item.Parametric = &catalog.ParametricShape{Kind: m.ParametricKind}
	}
	return item
}

func instanceToModel(inst *catalog.Instance) instanceModel {
	m := instanceModel{
		ID:     inst.ID,
		ItemID: inst.ItemID,
		RoomID: inst.RoomID,

		PosX: inst.Position.X, PosY: inst.Position.Y, PosZ: inst.Position.Z,
		RotX: inst.Rotation.X, RotY: inst.Rotation.Y, RotZ: inst.Rotation.Z,
		ScaleX: inst.ScaleMultiplier.X, ScaleY: inst.ScaleMultiplier.Y, ScaleZ: inst.ScaleMultiplier.Z,

		ParentSurfaceID:   inst.ParentSurfaceID,
		ParentSurfaceType: string(inst.ParentSurfaceType),
	}
	if inst.Wall != nil {
		m.OnWall = true
		m.WallRoomID = inst.Wall.RoomID
		m.WallID = inst.Wall.WallID
		m.WallFacing = inst.Wall.Facing
		m.WallHeight = inst.Wall.Height
		m.WallLateral = inst.Wall.Lateral
		m.WallNormalOffset = inst.Wall.NormalOffset
	}
	return m
}

func modelToInstance(m *instanceModel) *catalog.Instance {
	inst := &catalog.Instance{
		ID:                m.ID,
		ItemID:            m.ItemID,
		RoomID:            m.RoomID,
		Position:          math.Vec3{X: m.PosX, Y: m.PosY, Z: m.PosZ},
		Rotation:          math.Vec3{X: m.RotX, Y: m.RotY, Z: m.RotZ},
		ScaleMultiplier:   math.Vec3{X: m.ScaleX, Y: m.ScaleY, Z: m.ScaleZ},
		ParentSurfaceID:   m.ParentSurfaceID,
		ParentSurfaceType: catalog.ParentSurfaceType(m.ParentSurfaceType),
	}
	if inst.ScaleMultiplier == (math.Vec3{}) {
		inst.ScaleMultiplier = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	if m.OnWall {
		inst.Wall = &catalog.WallPlacement{
			RoomID:       m.WallRoomID,
			WallID:       m.WallID,
			Facing:       m.WallFacing,
			Height:       m.WallHeight,
			Lateral:      m.WallLateral,
			NormalOffset: m.WallNormalOffset,
		}
	}
	return inst
}
