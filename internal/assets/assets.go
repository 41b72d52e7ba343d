// Package assets measures item geometry and serves natural bounding boxes to
// the scene. Measurement is asynchronous: until a mesh file resolves, a
// placeholder box built from the item's declared dimensions stands in.
// Because placement math is pure in the bounds, a late re-measure refines the
// render without moving any already-placed instance.
package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Measurer resolves item natural bounds from mesh files or parametric shapes.
type Measurer struct {
	dir string

	mu       sync.RWMutex
	resolved map[string]picking.AABB
	pending  map[string]bool

	// OnResolve, when set, is called from the loader goroutine after an
	// item's bounds resolve. Callers marshal back onto their own goroutine
	// before touching scene state.
	OnResolve func(itemID string)
}

// NewMeasurer creates a measurer rooted at the model directory.
func NewMeasurer(dir string) *Measurer {
	return &Measurer{
		dir:      dir,
		resolved: make(map[string]picking.AABB),
		pending:  make(map[string]bool),
	}
}

// NaturalBounds returns the item's measured bounds, kicking off an async
// measure on first sight. Until the measure lands the declared dimensions
// stand in, already oriented, so the fit scale starts at identity.
func (m *Measurer) NaturalBounds(item *catalog.Item) picking.AABB {
	m.mu.RLock()
	bounds, ok := m.resolved[item.ID]
	m.mu.RUnlock()
	if ok {
		return bounds
	}

	m.beginMeasure(item)
	return Placeholder(item)
}

// Placeholder fabricates bounds from the declared dimensions: bottom at y=0,
// centered on x/z. Declared dimensions already describe the oriented item, so
// no default rotation applies here.
func Placeholder(item *catalog.Item) picking.AABB {
	d := item.Dimensions
	return picking.NewAABB(
		math.Vec3{X: -d.Width / 2, Z: -d.Depth / 2},
		math.Vec3{X: d.Width / 2, Y: d.Height, Z: d.Depth / 2},
	)
}

func (m *Measurer) beginMeasure(item *catalog.Item) {
	m.mu.Lock()
	if m.pending[item.ID] {
		m.mu.Unlock()
		return
	}
	if _, ok := m.resolved[item.ID]; ok {
		m.mu.Unlock()
		return
	}
	m.pending[item.ID] = true
	m.mu.Unlock()

	go func() {
		if err := m.MeasureNow(item); err != nil {
			logger.Warn("item measure failed, keeping placeholder bounds",
				zap.String("item", item.ID),
				zap.Error(err))
		}
		if m.OnResolve != nil {
			m.OnResolve(item.ID)
		}
	}()
}

// MeasureNow measures the item synchronously and records the result. On
// failure the placeholder is recorded instead, so failures do not re-trigger
// loads every frame.
func (m *Measurer) MeasureNow(item *catalog.Item) error {
	bounds, err := m.measure(item)
	if err != nil {
		bounds = Placeholder(item)
	}

	m.mu.Lock()
	m.resolved[item.ID] = bounds
	delete(m.pending, item.ID)
	m.mu.Unlock()
	return err
}

// Invalidate drops a measured result so the next request re-measures, e.g.
// after the item's model file changed on disk.
func (m *Measurer) Invalidate(itemID string) {
	m.mu.Lock()
	delete(m.resolved, itemID)
	m.mu.Unlock()
}

func (m *Measurer) measure(item *catalog.Item) (picking.AABB, error) {
	var bounds picking.AABB
	var err error

	switch {
	case item.Parametric != nil:
		bounds, err = ShapeBounds(item.Parametric.Kind)
	case item.ModelRef != "":
		bounds, err = ReadSTLBounds(filepath.Join(m.dir, item.ModelRef))
	default:
		return picking.AABB{}, fmt.Errorf("item %s has no geometry source", item.ID)
	}
	if err != nil {
		return picking.AABB{}, err
	}

	return orientBounds(bounds, item.DefaultRotation), nil
}

// ShapeBounds returns the raw bounds of a parametric shape. Shapes are unit
// sized; auto-scale stretches them to the declared dimensions.
func ShapeBounds(kind string) (picking.AABB, error) {
	switch kind {
	case "box", "cylinder":
		return picking.NewAABB(
			math.Vec3{X: -0.5, Z: -0.5},
			math.Vec3{X: 0.5, Y: 1, Z: 0.5},
		), nil
	default:
		return picking.AABB{}, fmt.Errorf("unknown parametric shape %q", kind)
	}
}

// orientBounds applies the item's default rotation to raw mesh bounds by
// rotating all eight corners and taking the enclosing box. Declared
// dimensions are measured against this oriented box.
func orientBounds(bounds picking.AABB, rot *catalog.DefaultRotation) picking.AABB {
	if rot == nil || (rot.X == 0 && rot.Z == 0) {
		return bounds
	}

	transform := math.RotateX(rot.X).Mul(math.RotateZ(rot.Z))

	corners := [8]math.Vec3{
		{X: bounds.Min.X, Y: bounds.Min.Y, Z: bounds.Min.Z},
		{X: bounds.Max.X, Y: bounds.Min.Y, Z: bounds.Min.Z},
		{X: bounds.Min.X, Y: bounds.Max.Y, Z: bounds.Min.Z},
		{X: bounds.Max.X, Y: bounds.Max.Y, Z: bounds.Min.Z},
		{X: bounds.Min.X, Y: bounds.Min.Y, Z: bounds.Max.Z},
		{X: bounds.Max.X, Y: bounds.Min.Y, Z: bounds.Max.Z},
		{X: bounds.Min.X, Y: bounds.Max.Y, Z: bounds.Max.Z},
		{X: bounds.Max.X, Y: bounds.Max.Y, Z: bounds.Max.Z},
	}

	out := picking.NewAABB(transform.TransformVec3(corners[0]), transform.TransformVec3(corners[0]))
	for _, c := range corners[1:] {
		p := transform.TransformVec3(c)
		out = picking.NewAABB(minVec(out.Min, p), maxVec(out.Max, p))
	}
	return out
}

func minVec(a, b math.Vec3) math.Vec3 {
	if b.X < a.X {
		a.X = b.X
	}
	if b.Y < a.Y {
		a.Y = b.Y
	}
	if b.Z < a.Z {
		a.Z = b.Z
	}
	return a
}

func maxVec(a, b math.Vec3) math.Vec3 {
	if b.X > a.X {
		a.X = b.X
	}
	if b.Y > a.Y {
		a.Y = b.Y
	}
	if b.Z > a.Z {
		a.Z = b.Z
	}
	return a
}
