// Package dimension computes the non-uniform scale and offset that fit a raw
// asset's bounding box to an item's declared real-world dimensions, resting
// the asset's bottom on y=0 and centering it horizontally.
package dimension

import (
	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// minAxisSize guards the scale division. An axis thinner than this keeps
// scale 1 instead of propagating Inf/NaN into the transform.
const minAxisSize = 1e-5

// Fit is the result of fitting an asset to target dimensions. Scaling is
// modeled as applied before Offset: worldVertex = rawVertex*Scale + Offset.
type Fit struct {
	Scale  math.Vec3
	Offset math.Vec3
	// Degenerate is true when any natural axis was below the size guard.
	Degenerate bool
}

// Compute fits the natural bounding box (measured after the item's default
// rotation) to the target dimensions. Target axes map width→X, height→Y,
// depth→Z.
func Compute(natural picking.AABB, target catalog.Dimensions) Fit {
	size := natural.Size()

	fit := Fit{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
	fit.Scale.X, fit.Degenerate = scaleAxis(target.Width, size.X, fit.Degenerate)
	fit.Scale.Y, fit.Degenerate = scaleAxis(target.Height, size.Y, fit.Degenerate)
	fit.Scale.Z, fit.Degenerate = scaleAxis(target.Depth, size.Z, fit.Degenerate)

	if fit.Degenerate {
		logger.Warn("degenerate asset bounds, scale defaulted to 1 on thin axes",
			zap.Any("size", size))
	}

	center := natural.Center()
	fit.Offset = math.Vec3{
		X: -center.X * fit.Scale.X,
		Y: -natural.Min.Y * fit.Scale.Y,
		Z: -center.Z * fit.Scale.Z,
	}

	return fit
}

func scaleAxis(target, size float32, degenerate bool) (float32, bool) {
	if size < minAxisSize {
		return 1, true
	}
	if target <= 0 {
		return 1, degenerate
	}
	return target / size, degenerate
}

// Apply transforms a local bounding box by the fit. The result's Min.Y is 0
// and its horizontal center is the origin whenever the fit was computed from
// the same box.
func (f Fit) Apply(box picking.AABB) picking.AABB {
	return box.ScaleBy(f.Scale).Translate(f.Offset)
}
