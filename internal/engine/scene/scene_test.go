package scene

import (
	"testing"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/surface"
	"github.com/Faultbox/roomforge/pkg/floorplan"
	"github.com/Faultbox/roomforge/pkg/math"
)

type fakeItems map[string]*catalog.Item

func (f fakeItems) GetItem(id string) (*catalog.Item, bool) {
	item, ok := f[id]
	return item, ok
}

type declaredBounds struct{}

func (declaredBounds) NaturalBounds(item *catalog.Item) picking.AABB {
	d := item.Dimensions
	return picking.NewAABB(
		math.Vec3{X: -d.Width / 2, Z: -d.Depth / 2},
		math.Vec3{X: d.Width / 2, Y: d.Height, Z: d.Depth / 2},
	)
}

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

func testItems() fakeItems {
	return fakeItems{
		"chair": {
			ID:         "chair",
			Placement:  catalog.PlacementFloor,
			Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 2},
		},
		"table": {
			ID:         "table",
			Placement:  catalog.PlacementFloor,
			Dimensions: catalog.Dimensions{Width: 4, Height: 2, Depth: 4},
			SurfaceTop: true,
		},
	}
}

func vec3Near(a, b math.Vec3, tol float32) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestLoadPlanRegistersSurfaces(t *testing.T) {
	reg := surface.NewRegistry()
	scn := New(testItems(), declaredBounds{}, reg)
	scn.LoadPlan(squareRoomPlan())

	// One floor per room plus one surface per wall segment.
	if reg.Len() != 5 {
		t.Fatalf("registry Len = %d, want 5", reg.Len())
	}
	if _, ok := reg.Get("floor:r1"); !ok {
		t.Error("floor surface not registered")
	}
	if _, ok := reg.Get("w-n"); !ok {
		t.Error("wall surface not registered")
	}
	if len(scn.Meshes()) != 4 {
		t.Errorf("meshes = %d, want 4", len(scn.Meshes()))
	}

	// Reloading replaces, never accumulates.
	scn.LoadPlan(squareRoomPlan())
	if reg.Len() != 5 {
		t.Errorf("registry Len = %d after reload, want 5", reg.Len())
	}
}

func TestMountMissingItemSkipsWithoutDeleting(t *testing.T) {
	scn := New(testItems(), declaredBounds{}, surface.NewRegistry())
	scn.LoadPlan(squareRoomPlan())

	inst := catalog.NewInstance("i1", "gone", "r1", math.Vec3{X: 1})
	scn.Mount(inst)

	if scn.Node("i1") != nil {
		t.Error("node created for instance with missing item")
	}
	// The instance itself is untouched.
	if inst.ItemID != "gone" {
		t.Error("instance mutated on failed mount")
	}
}

func TestMountPosesRoomLocal(t *testing.T) {
	items := testItems()
	scn := New(items, declaredBounds{}, surface.NewRegistry())
	plan := squareRoomPlan()
	plan.Rooms[0].Position = math.Vec3{X: 100, Z: 50}
	scn.LoadPlan(plan)

	inst := catalog.NewInstance("i1", "chair", "r1", math.Vec3{X: 1, Z: 2})
	scn.Mount(inst)

	node := scn.Node("i1")
	if node == nil {
		t.Fatal("chair not mounted")
	}
	want := math.Vec3{X: 101, Z: 52}
	if !vec3Near(node.Position, want, 1e-5) {
		t.Errorf("position = %v, want room offset applied %v", node.Position, want)
	}
}

func TestMountSurfaceTopRegistersItemSurface(t *testing.T) {
	reg := surface.NewRegistry()
	scn := New(testItems(), declaredBounds{}, reg)
	scn.LoadPlan(squareRoomPlan())

	inst := catalog.NewInstance("t1", "table", "r1", math.Vec3{})
	scn.Mount(inst)

	s, ok := reg.Get("t1")
	if !ok || s.Type != surface.TypeItem {
		t.Fatalf("surface = %+v ok=%v, want item surface t1", s, ok)
	}
	if math.Abs(s.Top.Max.Y-2) > 1e-5 {
		t.Errorf("top = %v, want table height 2", s.Top.Max.Y)
	}

	scn.Unmount("t1")
	if _, ok := reg.Get("t1"); ok {
		t.Error("surface still registered after unmount")
	}
	if scn.Node("t1") != nil {
		t.Error("node still present after unmount")
	}
}

func TestPoseWallPlacementOverridesPosition(t *testing.T) {
	items := fakeItems{"mirror": {
		ID:         "mirror",
		Placement:  catalog.PlacementWall,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 0.5},
	}}
	scn := New(items, declaredBounds{}, surface.NewRegistry())
	scn.LoadPlan(squareRoomPlan())

	inst := catalog.NewInstance("m1", "mirror", "r1", math.Vec3{X: 99, Z: 99})
	inst.Wall = &catalog.WallPlacement{
		RoomID: "r1", WallID: "w-n", Facing: -1,
		Height: 4, Lateral: 5, NormalOffset: 0.3,
	}
	scn.Mount(inst)

	want := math.Vec3{Y: 4, Z: 5.3}
	if got := scn.Node("m1").Position; !vec3Near(got, want, 1e-4) {
		t.Errorf("position = %v, want wall-derived %v, not stored (99,_,99)", got, want)
	}
}

func TestPoseParentItemRelative(t *testing.T) {
	scn := New(testItems(), declaredBounds{}, surface.NewRegistry())
	scn.LoadPlan(squareRoomPlan())

	table := catalog.NewInstance("t1", "table", "r1", math.Vec3{X: 2, Z: 2})
	scn.Mount(table)

	vase := catalog.NewInstance("v1", "chair", "r1", math.Vec3{X: 0.5, Y: 2, Z: 0})
	vase.ParentSurfaceID = "t1"
	vase.ParentSurfaceType = catalog.ParentItem
	scn.Mount(vase)

	want := math.Vec3{X: 2.5, Y: 2, Z: 2}
	if got := scn.Node("v1").Position; !vec3Near(got, want, 1e-5) {
		t.Errorf("position = %v, want parent-relative %v", got, want)
	}
}

// Wall-relative placements must survive a floorplan edit: moving the wall
// moves the instance with it.
func TestLoadPlanRePosesWallInstances(t *testing.T) {
	items := fakeItems{"mirror": {
		ID:         "mirror",
		Placement:  catalog.PlacementWall,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 0.5},
	}}
	scn := New(items, declaredBounds{}, surface.NewRegistry())
	scn.LoadPlan(squareRoomPlan())

	inst := catalog.NewInstance("m1", "mirror", "r1", math.Vec3{})
	inst.Wall = &catalog.WallPlacement{
		RoomID: "r1", WallID: "w-n", Facing: -1,
		Height: 4, Lateral: 5, NormalOffset: 0.3,
	}
	scn.Mount(inst)
	before := scn.Node("m1").Position

	// Stretch the room: the north wall moves from z=5 to z=10.
	plan := squareRoomPlan()
	plan.Vertices[2] = floorplan.Point{X: 10, Y: 20}
	plan.Vertices[3] = floorplan.Point{X: 0, Y: 20}
	scn.LoadPlan(plan)

	after := scn.Node("m1").Position
	if vec3Near(before, after, 1e-4) {
		t.Fatal("instance did not follow the edited wall")
	}
	if math.Abs(after.Z-10.3) > 1e-3 {
		t.Errorf("z = %v, want just off the moved wall at 10.3", after.Z)
	}
}

// A yawed instance's picking box must cover what is drawn: a thin wall item
// turned a quarter turn swaps its world-space width and depth.
func TestPoseWorldBoundsFollowYaw(t *testing.T) {
	items := fakeItems{"mirror": {
		ID:         "mirror",
		Placement:  catalog.PlacementWall,
		Dimensions: catalog.Dimensions{Width: 2, Height: 3, Depth: 0.5},
	}}
	scn := New(items, declaredBounds{}, surface.NewRegistry())
	scn.LoadPlan(squareRoomPlan())

	inst := catalog.NewInstance("m1", "mirror", "r1", math.Vec3{X: 1, Z: 2})
	inst.Rotation = math.Vec3{Y: 1.5707963}
	scn.Mount(inst)

	size := scn.Node("m1").WorldBounds.Size()
	if math.Abs(size.X-0.5) > 1e-3 || math.Abs(size.Z-2) > 1e-3 {
		t.Errorf("bounds size = %v, want width and depth swapped (0.5, 3, 2)", size)
	}
	center := scn.Node("m1").WorldBounds.Center()
	if !vec3Near(center, math.Vec3{X: 1, Y: 1.5, Z: 2}, 1e-3) {
		t.Errorf("bounds center = %v, want about the anchor (1, 1.5, 2)", center)
	}
}

func TestSetParentRejectsCycles(t *testing.T) {
	scn := New(testItems(), declaredBounds{}, surface.NewRegistry())
	scn.LoadPlan(squareRoomPlan())

	a := catalog.NewInstance("a", "table", "r1", math.Vec3{})
	b := catalog.NewInstance("b", "table", "r1", math.Vec3{})
	scn.Mount(a)
	scn.Mount(b)

	if err := scn.SetParent(b, "a", catalog.ParentItem); err != nil {
		t.Fatalf("SetParent b->a: %v", err)
	}
	if err := scn.SetParent(a, "b", catalog.ParentItem); err == nil {
		t.Fatal("SetParent a->b accepted, want cycle rejection")
	}
	// The failed call must not have mutated a.
	if a.ParentSurfaceID != "" {
		t.Errorf("a.ParentSurfaceID = %q after rejected assignment", a.ParentSurfaceID)
	}

	if err := scn.SetParent(a, "a", catalog.ParentItem); err == nil {
		t.Error("self-parenting accepted")
	}
}
