package camera

import (
	"testing"

	"github.com/Faultbox/roomforge/pkg/math"
)

func TestPositionOrbitsCenter(t *testing.T) {
	c := New()
	c.Center = math.Vec3{X: 5, Z: 5}
	c.Distance = 10

	pos := c.Position()
	if got := pos.Distance(c.Center); math.Abs(got-10) > 1e-4 {
		t.Errorf("distance to center = %v, want 10", got)
	}

	c.Yaw += 1.3
	pos2 := c.Position()
	if got := pos2.Distance(c.Center); math.Abs(got-10) > 1e-4 {
		t.Errorf("distance after yaw = %v, want 10", got)
	}
	if pos == pos2 {
		t.Error("yaw did not move the camera")
	}
}

func TestDragClampsPitch(t *testing.T) {
	c := New()
	c.HandleDrag(0, 1e6)
	if c.Pitch > c.MaxPitch {
		t.Errorf("pitch = %v beyond max %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch < c.MinPitch {
		t.Errorf("pitch = %v below min %v", c.Pitch, c.MinPitch)
	}
}

func TestZoomClampsDistance(t *testing.T) {
	c := New()
	for i := 0; i < 200; i++ {
		c.HandleZoom(5)
	}
	if c.Distance < c.MinDistance {
		t.Errorf("distance = %v below min", c.Distance)
	}
	for i := 0; i < 200; i++ {
		c.HandleZoom(-5)
	}
	if c.Distance > c.MaxDistance {
		t.Errorf("distance = %v above max", c.Distance)
	}
}

func TestGlideReachesTarget(t *testing.T) {
	c := New()
	target := math.Vec3{X: 8, Y: 1, Z: -3}
	c.GlideTo(target, 12)

	for i := 0; i < 100; i++ {
		c.Update(0.016)
	}

	if c.Center.Distance(target) > 1e-3 {
		t.Errorf("center = %v, want %v", c.Center, target)
	}
	if math.Abs(c.Distance-12) > 1e-3 {
		t.Errorf("distance = %v, want 12", c.Distance)
	}
}

func TestFitToBoundsFramesRoom(t *testing.T) {
	c := New()
	c.FitToBounds(math.Vec3{X: -5, Z: -5}, math.Vec3{X: 5, Y: 8, Z: 5})

	for i := 0; i < 100; i++ {
		c.Update(0.016)
	}

	want := math.Vec3{Y: 4}
	if c.Center.Distance(want) > 1e-3 {
		t.Errorf("center = %v, want room middle %v", c.Center, want)
	}
	if c.Distance < 10 {
		t.Errorf("distance = %v, too close to frame a 10ft room", c.Distance)
	}
}
