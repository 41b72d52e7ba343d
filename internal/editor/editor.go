// Package editor implements the interactive planner loop: it owns the
// window, camera, scene, and the placement and drag controllers, and routes
// input events between them.
package editor

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/assets"
	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/config"
	"github.com/Faultbox/roomforge/internal/engine/camera"
	"github.com/Faultbox/roomforge/internal/engine/input"
	"github.com/Faultbox/roomforge/internal/engine/interact"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/engine/placement"
	"github.com/Faultbox/roomforge/internal/engine/renderer"
	"github.com/Faultbox/roomforge/internal/engine/scene"
	"github.com/Faultbox/roomforge/internal/engine/surface"
	"github.com/Faultbox/roomforge/internal/engine/window"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/internal/store"
	"github.com/Faultbox/roomforge/pkg/floorplan"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Editor is the running planner application.
type Editor struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	store    *store.Store
	measurer *assets.Measurer
	scene    *scene.Scene
	session  *placement.Session
	dragger  *interact.Dragger

	activeRoom string
	selected   string
	resolved   chan string

	mouseX, mouseY int
	orbiting       bool
}

// New wires the editor together: store, catalog, floorplan, scene, window,
// renderer.
func New(cfg *config.Config) (*Editor, error) {
	e := &Editor{
		cfg:      cfg,
		resolved: make(chan string, 32),
	}

	st, err := store.Open(cfg.Data.Database)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	e.store = st

	items, err := catalog.LoadFile(cfg.Data.Catalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if err := st.SeedCatalog(items); err != nil {
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}

	plan, err := floorplan.Load(cfg.Data.Floorplan)
	if err != nil {
		return nil, fmt.Errorf("loading floorplan: %w", err)
	}

	e.measurer = assets.NewMeasurer(cfg.Data.Models)
	e.measurer.OnResolve = func(itemID string) {
		select {
		case e.resolved <- itemID:
		default:
		}
	}

	e.scene = scene.New(st, e.measurer, surface.NewRegistry())
	e.scene.LoadPlan(plan)

	e.activeRoom = cfg.Editor.ActiveRoom
	if e.activeRoom == "" && len(plan.Rooms) > 0 {
		e.activeRoom = plan.Rooms[0].ID
	}

	// Mount everything already placed.
	for _, room := range plan.Rooms {
		instances, err := st.InstancesForRoom(room.ID)
		if err != nil {
			return nil, fmt.Errorf("loading room %s: %w", room.ID, err)
		}
		for _, inst := range instances {
			e.scene.Mount(inst)
		}
	}

	e.session = placement.NewSession(e.scene, st)
	e.dragger = interact.NewDragger(e.scene, st, st)
	e.dragger.SetGridSnap(cfg.Editor.GridSnap)

	e.window, err = window.New(window.Config{
		Title:      "RoomForge",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	e.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		e.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	e.renderer.SetWalls(e.scene.Meshes())

	e.input = input.New()
	e.camera = camera.New()
	min, max := e.planBounds()
	e.camera.FitToBounds(min, max)

	logger.Info("editor initialized",
		zap.Int("rooms", len(plan.Rooms)),
		zap.Int("catalog", len(items)),
		zap.String("active_room", e.activeRoom))
	return e, nil
}

// Close releases everything in reverse creation order.
func (e *Editor) Close() {
	if e.renderer != nil {
		e.renderer.Close()
	}
	if e.window != nil {
		e.window.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
}

// Run drives the main loop until quit.
func (e *Editor) Run() error {
	e.running = true
	lastTime := time.Now()
	frames := 0
	fpsTimer := time.Now()

	for e.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if e.input.Update() {
			break
		}
		for _, ev := range e.input.Events() {
			e.handleEvent(ev)
		}

		e.drainResolved()
		e.camera.Update(dt)
		e.render()
		e.window.SwapBuffers()

		frames++
		if e.cfg.Editor.ShowFPS && time.Since(fpsTimer) >= time.Second {
			e.window.SetTitle(fmt.Sprintf("RoomForge - %d fps", frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}

	logger.Info("editor closed")
	return nil
}

// drainResolved re-poses instances whose item bounds just resolved.
func (e *Editor) drainResolved() {
	for {
		select {
		case itemID := <-e.resolved:
			for id, node := range e.scene.Nodes() {
				if node.Instance.ItemID == itemID {
					e.scene.Refresh(id)
				}
			}
		default:
			return
		}
	}
}

func (e *Editor) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		e.running = false

	case input.EventWindowResize:
		e.renderer.Resize(ev.Width, ev.Height)

	case input.EventMouseWheel:
		e.camera.HandleZoom(ev.WheelY)

	case input.EventMouseDown:
		e.mouseX, e.mouseY = ev.MouseX, ev.MouseY
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			e.handlePointerDown(ev.MouseX, ev.MouseY)
		case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
			e.orbiting = true
		}

	case input.EventMouseUp:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			// Window-level release; the dragger ignores it unless dragging.
			e.dragger.PointerUp()
		case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
			e.orbiting = false
		}

	case input.EventMouseMove:
		e.mouseX, e.mouseY = ev.MouseX, ev.MouseY
		if e.orbiting {
			e.camera.HandleDrag(float32(ev.RelX), float32(ev.RelY))
			return
		}
		ray := e.pointerRay(ev.MouseX, ev.MouseY)
		if e.session.State() == placement.StatePreviewing {
			e.session.UpdatePointer(ray, e.camera.Position())
			return
		}
		e.dragger.PointerMove(ray, e.camera.Position())

	case input.EventKeyDown:
		e.handleKey(ev.Key)
	}
}

func (e *Editor) handlePointerDown(x, y int) {
	ray := e.pointerRay(x, y)

	if e.session.State() == placement.StatePreviewing {
		if _, err := e.session.Confirm(); err != nil {
			logger.Warn("placement rejected", zap.Error(err))
		}
		return
	}

	if id, ok := e.pickNode(ray); ok {
		// First click selects; a press on the already-selected instance
		// arms the drag.
		if id == e.selected {
			e.dragger.PointerDown(id, ray)
		} else {
			e.selected = id
		}
		return
	}
	e.selected = ""
}

func (e *Editor) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		switch {
		case e.session.State() == placement.StatePreviewing:
			e.session.Cancel()
		case e.dragger.Dragging():
			e.dragger.Cancel()
		default:
			e.running = false
		}

	case sdl.SCANCODE_UP:
		e.nudgeSelected(0, -1)
	case sdl.SCANCODE_DOWN:
		e.nudgeSelected(0, 1)
	case sdl.SCANCODE_LEFT:
		e.nudgeSelected(-1, 0)
	case sdl.SCANCODE_RIGHT:
		e.nudgeSelected(1, 0)

	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE:
		e.deleteSelected()

	case sdl.SCANCODE_W:
		e.camera.HandlePan(1, 0)
	case sdl.SCANCODE_S:
		e.camera.HandlePan(-1, 0)
	case sdl.SCANCODE_A:
		e.camera.HandlePan(0, -1)
	case sdl.SCANCODE_D:
		e.camera.HandlePan(0, 1)

	case sdl.SCANCODE_F:
		min, max := e.planBounds()
		e.camera.FitToBounds(min, max)

	default:
		// 1..9 begin placement of the nth catalog item.
		if key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9 {
			e.beginPlacement(int(key - sdl.SCANCODE_1))
		}
	}
}

func (e *Editor) beginPlacement(index int) {
	if e.dragger.Dragging() {
		return
	}
	items := e.store.Items()
	if index < 0 || index >= len(items) {
		return
	}
	e.session.Cancel()
	e.session.Begin(items[index], e.activeRoom)
	e.session.UpdatePointer(e.pointerRay(e.mouseX, e.mouseY), e.camera.Position())
}

func (e *Editor) nudgeSelected(dx, dz int) {
	if e.selected != "" && !e.dragger.Dragging() {
		e.dragger.Nudge(e.selected, dx, dz)
	}
}

func (e *Editor) deleteSelected() {
	if e.selected == "" {
		return
	}
	if err := e.store.DeleteInstance(e.selected); err != nil {
		logger.Error("deleting instance", zap.String("id", e.selected), zap.Error(err))
		return
	}
	e.scene.Unmount(e.selected)
	e.selected = ""
}

// pickNode returns the nearest instance whose world bounds the ray crosses.
func (e *Editor) pickNode(ray picking.Ray) (string, bool) {
	bestID := ""
	bestT := float32(1e30)
	for id, node := range e.scene.Nodes() {
		if t, hit := ray.IntersectAABB(node.WorldBounds); hit && t < bestT {
			bestID, bestT = id, t
		}
	}
	return bestID, bestID != ""
}

func (e *Editor) pointerRay(x, y int) picking.Ray {
	w, h := e.window.GetSize()
	viewProj := e.renderer.Projection().Mul(e.camera.ViewMatrix())
	return picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), viewProj.Inverse())
}

func (e *Editor) planBounds() (math.Vec3, math.Vec3) {
	segs := e.scene.Segments()
	if len(segs) == 0 {
		return math.Vec3{X: -10, Z: -10}, math.Vec3{X: 10, Y: 8, Z: 10}
	}
	min := segs[0].Start
	max := segs[0].Start
	for _, seg := range segs {
		for _, p := range []math.Vec3{seg.Start, seg.End} {
			if p.X < min.X {
				min.X = p.X
			}
			if p.Z < min.Z {
				min.Z = p.Z
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Z > max.Z {
				max.Z = p.Z
			}
		}
		if seg.Height > max.Y {
			max.Y = seg.Height
		}
	}
	return min, max
}

func (e *Editor) render() {
	e.renderer.Begin(e.camera.ViewMatrix())

	min, max := e.planBounds()
	e.renderer.DrawFloor(min, max)
	e.renderer.DrawWalls()

	for id, node := range e.scene.Nodes() {
		color := renderer.ColorItem
		if id == e.selected {
			color = renderer.ColorSelected
		}
		e.drawNode(node, color)
	}

	if e.session.State() == placement.StatePreviewing {
		e.drawGhost()
	}

	e.renderer.End()
}

func (e *Editor) drawNode(node *scene.Node, color renderer.Color) {
	item, ok := e.store.GetItem(node.Instance.ItemID)
	if !ok {
		return
	}
	natural := e.measurer.NaturalBounds(item)
	e.renderer.DrawBoxTransform(nodeModel(natural, node.Position, node.Rotation, node.FitOffset, node.Scale), color)
}

func (e *Editor) drawGhost() {
	c := e.session.Preview()
	if !c.Valid {
		return
	}
	// The ghost uses placeholder geometry; fidelity arrives on commit.
	item := e.session.Item()
	if item == nil {
		return
	}
	natural := assets.Placeholder(item)
	model := nodeModel(natural, c.Position, c.Rotation, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	e.renderer.DrawBoxTransform(model, renderer.ColorGhost)
}

// nodeModel composes the render transform: translate, rotate, fit offset,
// scale, then the unit-cube-to-natural-bounds mapping.
func nodeModel(natural picking.AABB, position, rotation, fitOffset, scale math.Vec3) math.Mat4 {
	c := natural.Center()
	s := natural.Size()
	return math.Translate(position.X, position.Y, position.Z).
		Mul(math.RotateY(rotation.Y)).
		Mul(math.RotateX(rotation.X)).
		Mul(math.RotateZ(rotation.Z)).
		Mul(math.Translate(fitOffset.X, fitOffset.Y, fitOffset.Z)).
		Mul(math.Scale(scale.X, scale.Y, scale.Z)).
		Mul(math.Translate(c.X, c.Y, c.Z)).
		Mul(math.Scale(s.X, s.Y, s.Z))
}
