// Package camera provides the editor's orbit camera.
package camera

import (
	gomath "math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/roomforge/pkg/math"
)

// OrbitCamera orbits around a center point. Distances are in feet.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	glideX, glideY, glideZ *gween.Tween
	glideDist              *gween.Tween
}

// New creates an orbit camera with room-scale defaults.
func New() *OrbitCamera {
	return &OrbitCamera{
		Distance:        30,
		Pitch:           0.6,
		MinDistance:     3,
		MaxDistance:     200,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.glideDist = nil
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clampDistance()
}

// HandlePan moves the center point across the floor plane relative to the
// camera heading. Speed scales with distance for consistent feel.
func (c *OrbitCamera) HandlePan(forward, right float32) {
	speed := c.Distance * 0.01

	dirX := float32(gomath.Sin(float64(c.Yaw)))
	dirZ := float32(gomath.Cos(float64(c.Yaw)))

	c.Center.X += (-dirX*forward + dirZ*right) * speed
	c.Center.Z += (-dirZ*forward - dirX*right) * speed
}

const glideDuration = 0.4

// GlideTo eases the camera toward a new focus point and distance. Passing a
// non-positive distance keeps the current one.
func (c *OrbitCamera) GlideTo(target math.Vec3, distance float32) {
	c.glideX = gween.New(c.Center.X, target.X, glideDuration, ease.OutQuad)
	c.glideY = gween.New(c.Center.Y, target.Y, glideDuration, ease.OutQuad)
	c.glideZ = gween.New(c.Center.Z, target.Z, glideDuration, ease.OutQuad)
	if distance > 0 {
		c.glideDist = gween.New(c.Distance, distance, glideDuration, ease.OutQuad)
	}
}

// FitToBounds glides to frame the given box, looking down at the room.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	size := max.Sub(min)
	span := size.X
	if size.Z > span {
		span = size.Z
	}
	dist := span * 1.2
	if dist < c.MinDistance {
		dist = c.MinDistance
	}
	c.GlideTo(min.Add(max).Scale(0.5), dist)
}

// Update advances in-flight glides. dt is in seconds.
func (c *OrbitCamera) Update(dt float32) {
	if c.glideX != nil {
		x, doneX := c.glideX.Update(dt)
		y, _ := c.glideY.Update(dt)
		z, _ := c.glideZ.Update(dt)
		c.Center = math.Vec3{X: x, Y: y, Z: z}
		if doneX {
			c.glideX, c.glideY, c.glideZ = nil, nil, nil
		}
	}
	if c.glideDist != nil {
		d, done := c.glideDist.Update(dt)
		c.Distance = d
		if done {
			c.glideDist = nil
		}
		c.clampDistance()
	}
}

func (c *OrbitCamera) clampDistance() {
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
