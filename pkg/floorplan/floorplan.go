// Package floorplan defines the persisted floorplan data model: 2D vertices,
// wall segments with per-side styles and door openings, and rooms with world
// offsets. The 2D drawing tool that produces these files is external; this
// package only reads, validates, and writes its output.
package floorplan

import (
	"github.com/google/uuid"

	"github.com/Faultbox/roomforge/pkg/math"
)

// DefaultWallHeight is the ceiling height used when a room does not set one, feet.
const DefaultWallHeight = 8.0

// Point is a 2D floorplan coordinate in feet. X maps to world X, Y to world Z.
type Point struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// Door is an opening cut into a wall segment.
type Door struct {
	ID string `yaml:"id"`
	// Position is the distance from the segment's start vertex to the door's
	// near edge, in feet.
	Position float32 `yaml:"position"`
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
}

// SideStyle describes one face of a wall segment.
type SideStyle struct {
	Color    string `yaml:"color,omitempty"`
	Material string `yaml:"material,omitempty"`
}

// WallSegment connects two vertices of the shared vertex array. Each room
// contributes its own segments; adjacent rooms may produce two segments at
// the same physical location (a shared wall).
type WallSegment struct {
	ID     string    `yaml:"id"`
	RoomID string    `yaml:"room_id"`
	A      int       `yaml:"a"` // index into Plan.Vertices
	B      int       `yaml:"b"`
	SideA  SideStyle `yaml:"side_a,omitempty"`
	SideB  SideStyle `yaml:"side_b,omitempty"`
	Doors  []Door    `yaml:"doors,omitempty"`
}

// Room is a polygonal room with a world offset. Instance positions are stored
// relative to this offset.
type Room struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Position math.Vec3 `yaml:"position"`
	Height   float32   `yaml:"height"`
}

// CeilingHeight returns the room height, falling back to the default.
func (r Room) CeilingHeight() float32 {
	if r.Height > 0 {
		return r.Height
	}
	return DefaultWallHeight
}

// Plan is a complete floorplan: one shared vertex array plus every room's
// wall segments.
type Plan struct {
	Vertices []Point       `yaml:"vertices"`
	Segments []WallSegment `yaml:"segments"`
	Rooms    []Room        `yaml:"rooms"`
}

// RoomByID returns the room with the given id, or nil.
func (p *Plan) RoomByID(id string) *Room {
	for i := range p.Rooms {
		if p.Rooms[i].ID == id {
			return &p.Rooms[i]
		}
	}
	return nil
}

// SegmentByID returns the wall segment with the given id, or nil.
func (p *Plan) SegmentByID(id string) *WallSegment {
	for i := range p.Segments {
		if p.Segments[i].ID == id {
			return &p.Segments[i]
		}
	}
	return nil
}

// NewDoor creates a door with a fresh id.
func NewDoor(position, width, height float32) Door {
	return Door{
		ID:       uuid.NewString(),
		Position: position,
		Width:    width,
		Height:   height,
	}
}
