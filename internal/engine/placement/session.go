package placement

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/coords"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/scene"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// State names the session's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StatePreviewing
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePreviewing:
		return "previewing"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Store is the persistence surface the session commits through.
type Store interface {
	AddInstanceToRoom(roomID, itemID string, position math.Vec3) (string, error)
	UpdateInstance(id string, mutate func(*catalog.Instance)) error
	GetInstance(id string) (*catalog.Instance, bool)
}

// Session runs one item placement: the user selects an item, a translucent
// preview follows the pointer across valid surfaces, and a click commits the
// instance. Escape cancels at any point and is idempotent.
type Session struct {
	scene *scene.Scene
	store Store

	state  State
	item   *catalog.Item
	roomID string

	candidate Candidate
}

// NewSession creates an idle session over the scene and store.
func NewSession(scn *scene.Scene, store Store) *Session {
	return &Session{scene: scn, store: store}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Preview returns the current candidate pose. Valid is false until the first
// successful pointer resolution.
func (s *Session) Preview() Candidate {
	return s.candidate
}

// Item returns the item being previewed, or nil outside a preview.
func (s *Session) Item() *catalog.Item {
	return s.item
}

// Begin starts previewing an item. roomID is the active room, used for
// ceiling height and as the commit fallback when a hit carries no room.
func (s *Session) Begin(item *catalog.Item, roomID string) {
	s.state = StatePreviewing
	s.item = item
	s.roomID = roomID
	s.candidate = Candidate{}
	logger.Debug("placement started",
		zap.String("item", item.ID),
		zap.String("room", roomID))
}

// UpdatePointer re-resolves the preview pose for the pointer ray. When the
// ray misses every surface the previous pose persists; the ghost never snaps
// to an arbitrary point.
func (s *Session) UpdatePointer(ray picking.Ray, cameraPos math.Vec3) {
	if s.state != StatePreviewing {
		return
	}
	c := Resolve(s.item, ray, cameraPos, s.scene, s.roomHeight())
	if c.Valid {
		s.candidate = c
	}
}

// Confirm commits the previewed pose: the instance is created in its room
// with a room-local (or surface-relative) position, then mounted into the
// scene. Returns the new instance id.
func (s *Session) Confirm() (string, error) {
	if s.state != StatePreviewing {
		return "", fmt.Errorf("confirm in state %s", s.state)
	}
	if !s.candidate.Valid {
		return "", fmt.Errorf("no valid placement under pointer")
	}

	c := s.candidate
	roomID := c.Hit.RoomID
	if roomID == "" {
		roomID = s.roomID
	}

	position := s.storedPosition(c, roomID)
	id, err := s.store.AddInstanceToRoom(roomID, s.item.ID, position)
	if err != nil {
		return "", fmt.Errorf("add instance: %w", err)
	}

	err = s.store.UpdateInstance(id, func(inst *catalog.Instance) {
		inst.Rotation = c.Rotation
		inst.Wall = c.Wall
		inst.ParentSurfaceID = c.ParentSurfaceID
		inst.ParentSurfaceType = c.ParentSurfaceType
	})
	if err != nil {
		return "", fmt.Errorf("update instance %s: %w", id, err)
	}

	if inst, ok := s.store.GetInstance(id); ok {
		s.scene.Mount(inst)
	}

	s.state = StateCommitted
	s.item = nil
	logger.Info("instance placed",
		zap.String("instance", id),
		zap.String("room", roomID))
	return id, nil
}

// Cancel abandons the preview. Safe to call repeatedly and in any state.
func (s *Session) Cancel() {
	if s.state != StatePreviewing {
		return
	}
	s.state = StateCancelled
	s.item = nil
	s.candidate = Candidate{}
	logger.Debug("placement cancelled")
}

// storedPosition converts the world-space candidate position into the form
// the model stores: surface-relative when stacked on an item, room-local
// otherwise.
func (s *Session) storedPosition(c Candidate, roomID string) math.Vec3 {
	if c.ParentSurfaceType == catalog.ParentItem && c.ParentSurfaceID != "" {
		if parent := s.scene.Node(c.ParentSurfaceID); parent != nil {
			return coords.SurfaceRelative(c.Position, parent.Position)
		}
		logger.Warn("parent surface missing at commit, storing room-local",
			zap.String("parent", c.ParentSurfaceID))
	}
	if plan := s.scene.Plan(); plan != nil {
		if room := plan.RoomByID(roomID); room != nil {
			return coords.WorldToRoomLocal(c.Position, room)
		}
	}
	return c.Position
}

func (s *Session) roomHeight() float32 {
	if plan := s.scene.Plan(); plan != nil {
		if room := plan.RoomByID(s.roomID); room != nil {
			return room.CeilingHeight()
		}
	}
	return 0
}
