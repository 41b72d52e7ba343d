package walls

import (
	"go.uber.org/zap"

	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// holeInset pulls each door hole in from its nominal edges so a door edge
// exactly touching another edge never produces a degenerate triangulation.
const holeInset = 0.001

// Outline is a wall's 2D cross-section in wall-local coordinates: x runs
// along the wall in [-L/2, L/2], y vertically in [-H/2, H/2]. The outer
// boundary winds counter-clockwise and every hole winds clockwise; the
// triangulator relies on the opposite winding to recognize holes as
// subtractions rather than disjoint shapes.
type Outline struct {
	Outer []math.Vec2
	Holes [][]math.Vec2
}

// Outline builds the wall's outer rectangle with one hole per valid door.
// Doors whose span comes within MinDoorCornerDistance of the wall ends are
// dropped with a log, not an error, so the wall itself still renders.
func (s *ComputedSegment) Outline() Outline {
	halfL := s.Length / 2
	halfH := s.Height / 2

	out := Outline{
		// CCW
		Outer: []math.Vec2{
			{X: -halfL, Y: -halfH},
			{X: halfL, Y: -halfH},
			{X: halfL, Y: halfH},
			{X: -halfL, Y: halfH},
		},
	}

	for _, door := range s.Doors {
		if !doorFits(door.Position, door.Width, s.Length) {
			logger.Warn("door too close to wall end, dropping from geometry",
				zap.String("segment", s.ID),
				zap.String("door", door.ID),
				zap.Float32("position", door.Position),
				zap.Float32("width", door.Width),
				zap.Float32("wallLength", s.Length))
			continue
		}

		x0 := -halfL + door.Position + holeInset
		x1 := -halfL + door.Position + door.Width - holeInset
		y0 := -halfH + holeInset
		top := door.Height
		if top > s.Height-holeInset {
			top = s.Height - holeInset
		}
		y1 := -halfH + top - holeInset

		if x1 <= x0 || y1 <= y0 {
			logger.Warn("degenerate door hole, dropping",
				zap.String("segment", s.ID), zap.String("door", door.ID))
			continue
		}

		// CW
		out.Holes = append(out.Holes, []math.Vec2{
			{X: x0, Y: y0},
			{X: x0, Y: y1},
			{X: x1, Y: y1},
			{X: x1, Y: y0},
		})
	}

	return out
}

// doorFits reports whether [pos, pos+width] lies within
// [MinDoorCornerDistance, length-MinDoorCornerDistance].
func doorFits(pos, width, length float32) bool {
	return pos >= MinDoorCornerDistance && pos+width <= length-MinDoorCornerDistance
}
