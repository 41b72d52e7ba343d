package placement

import (
	"fmt"
	"testing"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/scene"
	"github.com/Faultbox/roomforge/internal/engine/surface"
	"github.com/Faultbox/roomforge/pkg/floorplan"
	"github.com/Faultbox/roomforge/pkg/math"
)

type fakeItems map[string]*catalog.Item

func (f fakeItems) GetItem(id string) (*catalog.Item, bool) {
	item, ok := f[id]
	return item, ok
}

// declaredBounds fabricates natural bounds exactly matching the declared
// dimensions, so the fit scale is identity and positions compare directly.
type declaredBounds struct{}

func (declaredBounds) NaturalBounds(item *catalog.Item) picking.AABB {
	d := item.Dimensions
	return picking.NewAABB(
		math.Vec3{X: -d.Width / 2, Z: -d.Depth / 2},
		math.Vec3{X: d.Width / 2, Y: d.Height, Z: d.Depth / 2},
	)
}

type fakeStore struct {
	instances map[string]*catalog.Instance
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{instances: make(map[string]*catalog.Instance)}
}

func (f *fakeStore) AddInstanceToRoom(roomID, itemID string, position math.Vec3) (string, error) {
	f.nextID++
	id := fmt.Sprintf("inst-%d", f.nextID)
	f.instances[id] = catalog.NewInstance(id, itemID, roomID, position)
	return id, nil
}

func (f *fakeStore) UpdateInstance(id string, mutate func(*catalog.Instance)) error {
	inst, ok := f.instances[id]
	if !ok {
		return fmt.Errorf("no instance %s", id)
	}
	mutate(inst)
	return nil
}

func (f *fakeStore) GetInstance(id string) (*catalog.Instance, bool) {
	inst, ok := f.instances[id]
	return inst, ok
}

// squareRoomPlan is a 10x10 room. After global recentering its walls sit at
// x = +-5 and z = +-5; the north wall (w-n) runs along x at z = 5.
func squareRoomPlan() *floorplan.Plan {
	return &floorplan.Plan{
		Vertices: []floorplan.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Segments: []floorplan.WallSegment{
			{ID: "w-s", RoomID: "r1", A: 0, B: 1},
			{ID: "w-e", RoomID: "r1", A: 1, B: 2},
			{ID: "w-n", RoomID: "r1", A: 3, B: 2},
			{ID: "w-w", RoomID: "r1", A: 0, B: 3},
		},
		Rooms: []floorplan.Room{{ID: "r1", Name: "living", Height: 8}},
	}
}

func newTestScene(items fakeItems) *scene.Scene {
	scn := scene.New(items, declaredBounds{}, surface.NewRegistry())
	scn.LoadPlan(squareRoomPlan())
	return scn
}

func downRayAt(x, z float32) picking.Ray {
	return picking.Ray{Origin: math.Vec3{X: x, Y: 20, Z: z}, Direction: math.Vec3{Y: -1}}
}

func vec3Near(a, b math.Vec3, tol float32) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestFloorPlacementCommit(t *testing.T) {
	items := fakeItems{"chair": {
		ID:         "chair",
		Placement:  catalog.PlacementFloor,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 2},
	}}
	scn := newTestScene(items)
	store := newFakeStore()
	sess := NewSession(scn, store)

	sess.Begin(items["chair"], "r1")
	if sess.State() != StatePreviewing {
		t.Fatalf("state = %v, want previewing", sess.State())
	}

	sess.UpdatePointer(downRayAt(3, -2), math.Vec3{Y: 20})
	c := sess.Preview()
	if !c.Valid {
		t.Fatal("preview invalid after floor hit")
	}
	want := math.Vec3{X: 3, Y: 0, Z: -2}
	if !vec3Near(c.Position, want, 1e-5) {
		t.Errorf("preview position = %v, want %v", c.Position, want)
	}

	id, err := sess.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if sess.State() != StateCommitted {
		t.Errorf("state = %v, want committed", sess.State())
	}

	inst, ok := store.GetInstance(id)
	if !ok {
		t.Fatal("instance not stored")
	}
	if inst.RoomID != "r1" {
		t.Errorf("RoomID = %q, want r1", inst.RoomID)
	}
	if !vec3Near(inst.Position, want, 1e-5) {
		t.Errorf("stored position = %v, want room-local %v", inst.Position, want)
	}
	if scn.Node(id) == nil {
		t.Error("instance not mounted after commit")
	}
}

// A wall item of depth 0.5 placed on a wall face whose viewer-side normal is
// (0,0,1) must end up at hit + (0,0,0.3) and face the room with yaw pi.
func TestWallPlacementPose(t *testing.T) {
	items := fakeItems{"mirror": {
		ID:         "mirror",
		Placement:  catalog.PlacementWall,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 0.5},
	}}
	scn := newTestScene(items)
	sess := NewSession(scn, newFakeStore())

	sess.Begin(items["mirror"], "r1")

	cam := math.Vec3{Y: 4, Z: 10}
	ray := picking.Ray{Origin: cam, Direction: math.Vec3{Z: -1}}
	sess.UpdatePointer(ray, cam)

	c := sess.Preview()
	if !c.Valid {
		t.Fatal("preview invalid after wall hit")
	}
	wantPos := math.Vec3{Y: 4, Z: 5.3}
	if !vec3Near(c.Position, wantPos, 1e-4) {
		t.Errorf("position = %v, want %v", c.Position, wantPos)
	}
	if math.Abs(math.Abs(c.Rotation.Y)-3.14159265) > 1e-4 {
		t.Errorf("yaw = %v, want pi", c.Rotation.Y)
	}
	if c.Wall == nil {
		t.Fatal("wall placement not populated")
	}
	if c.Wall.WallID != "w-n" || c.Wall.RoomID != "r1" {
		t.Errorf("wall = %+v, want w-n in r1", c.Wall)
	}
	if math.Abs(c.Wall.Height-4) > 1e-4 {
		t.Errorf("wall height = %v, want hit height 4", c.Wall.Height)
	}
	if math.Abs(c.Wall.NormalOffset-0.3) > 1e-4 {
		t.Errorf("normal offset = %v, want 0.3", c.Wall.NormalOffset)
	}

	id, err := sess.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	node := scn.Node(id)
	if node == nil {
		t.Fatal("wall instance not mounted")
	}
	if !vec3Near(node.Position, wantPos, 1e-3) {
		t.Errorf("mounted position = %v, want %v from wall frame", node.Position, wantPos)
	}
}

func TestWallItemIgnoresFloorAndItems(t *testing.T) {
	items := fakeItems{"mirror": {
		ID:         "mirror",
		Placement:  catalog.PlacementWall,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 0.5},
	}}
	scn := newTestScene(items)
	sess := NewSession(scn, newFakeStore())
	sess.Begin(items["mirror"], "r1")

	// Straight down: hits floor, no wall. Preview must stay invalid.
	sess.UpdatePointer(downRayAt(0, 0), math.Vec3{Y: 20})
	if sess.Preview().Valid {
		t.Error("wall item previewed on a non-wall surface")
	}
	if _, err := sess.Confirm(); err == nil {
		t.Error("Confirm succeeded with no valid wall target")
	}
}

func TestCeilingPlacement(t *testing.T) {
	items := fakeItems{"lamp": {
		ID:         "lamp",
		Placement:  catalog.PlacementCeiling,
		Dimensions: catalog.Dimensions{Width: 1, Height: 1, Depth: 1},
	}}
	scn := newTestScene(items)
	sess := NewSession(scn, newFakeStore())
	sess.Begin(items["lamp"], "r1")

	// Ray up from below toward the ceiling plane at 8 - 0.1.
	ray := picking.Ray{Origin: math.Vec3{X: 2, Y: 1, Z: 2}, Direction: math.Vec3{Y: 1}}
	sess.UpdatePointer(ray, math.Vec3{Y: 1})

	c := sess.Preview()
	if !c.Valid {
		t.Fatal("ceiling preview invalid")
	}
	if math.Abs(c.Position.Y-7.9) > 1e-4 {
		t.Errorf("ceiling y = %v, want 7.9", c.Position.Y)
	}
	if math.Abs(math.Abs(c.Rotation.X)-3.14159265) > 1e-4 {
		t.Errorf("rotation.x = %v, want pi (hanging)", c.Rotation.X)
	}
}

func TestStackedOnItemStoresSurfaceRelative(t *testing.T) {
	items := fakeItems{
		"table": {
			ID:         "table",
			Placement:  catalog.PlacementFloor,
			Dimensions: catalog.Dimensions{Width: 4, Height: 2, Depth: 4},
			SurfaceTop: true,
		},
		"vase": {
			ID:         "vase",
			Placement:  catalog.PlacementFloor,
			Dimensions: catalog.Dimensions{Width: 0.5, Height: 1, Depth: 0.5},
		},
	}
	scn := newTestScene(items)
	store := newFakeStore()

	tableID, _ := store.AddInstanceToRoom("r1", "table", math.Vec3{X: 1, Z: 1})
	table, _ := store.GetInstance(tableID)
	scn.Mount(table)

	sess := NewSession(scn, store)
	sess.Begin(items["vase"], "r1")
	sess.UpdatePointer(downRayAt(1.5, 1.5), math.Vec3{Y: 20})

	c := sess.Preview()
	if !c.Valid || c.ParentSurfaceType != catalog.ParentItem || c.ParentSurfaceID != tableID {
		t.Fatalf("candidate = %+v, want parented to %s", c, tableID)
	}
	if math.Abs(c.Position.Y-2) > 1e-4 {
		t.Errorf("hit y = %v, want table top 2", c.Position.Y)
	}

	id, err := sess.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	inst, _ := store.GetInstance(id)
	// Stored relative to the table's world position.
	want := math.Vec3{X: 0.5, Y: 2, Z: 0.5}
	if !vec3Near(inst.Position, want, 1e-4) {
		t.Errorf("stored position = %v, want surface-relative %v", inst.Position, want)
	}
	if inst.ParentSurfaceID != tableID {
		t.Errorf("parent = %q, want %q", inst.ParentSurfaceID, tableID)
	}
}

func TestPointerMissKeepsLastPose(t *testing.T) {
	items := fakeItems{"chair": {
		ID:         "chair",
		Placement:  catalog.PlacementFloor,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 2},
	}}
	scn := newTestScene(items)
	sess := NewSession(scn, newFakeStore())
	sess.Begin(items["chair"], "r1")

	sess.UpdatePointer(downRayAt(1, 1), math.Vec3{Y: 20})
	first := sess.Preview().Position

	// Upward ray hits nothing; the ghost must not move.
	miss := picking.Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: 1}}
	sess.UpdatePointer(miss, math.Vec3{Y: 5})
	if got := sess.Preview().Position; got != first {
		t.Errorf("position moved to %v on a miss, want %v retained", got, first)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	items := fakeItems{"chair": {
		ID:         "chair",
		Placement:  catalog.PlacementFloor,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 2},
	}}
	sess := NewSession(newTestScene(items), newFakeStore())

	sess.Cancel() // idle: no-op
	if sess.State() != StateIdle {
		t.Errorf("state = %v, want idle", sess.State())
	}

	sess.Begin(items["chair"], "r1")
	sess.Cancel()
	if sess.State() != StateCancelled {
		t.Errorf("state = %v, want cancelled", sess.State())
	}
	sess.Cancel() // repeated escape
	if sess.State() != StateCancelled {
		t.Errorf("state = %v after repeat, want cancelled", sess.State())
	}
	if _, err := sess.Confirm(); err == nil {
		t.Error("Confirm succeeded after cancel")
	}
}
