package math

import (
	gomath "math"
	"testing"
)

func vecNear(a, b Vec3, eps float32) bool {
	return Abs(a.X-b.X) < eps && Abs(a.Y-b.Y) < eps && Abs(a.Z-b.Z) < eps
}

func TestMat4IdentityTransform(t *testing.T) {
	p := Vec3{1, 2, 3}
	got := Identity().TransformVec3(p)
	if got != p {
		t.Errorf("Identity().TransformVec3() = %v, want %v", got, p)
	}
}

func TestMat4TranslateThenRotate(t *testing.T) {
	// Column-major: M = T * R rotates first, then translates.
	m := Translate(10, 0, 0).Mul(RotateY(gomath.Pi / 2))
	got := m.TransformVec3(Vec3{0, 0, 1})
	want := Vec3{11, 0, 0}
	if !vecNear(got, want, 1e-5) {
		t.Errorf("T*R transform = %v, want %v", got, want)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Translate(3, -2, 7).Mul(RotateY(0.37)).Mul(Scale(2, 2, 2))
	inv := m.Inverse()

	p := Vec3{1.5, -4, 2}
	back := inv.TransformVec3(m.TransformVec3(p))
	if !vecNear(back, p, 1e-4) {
		t.Errorf("Inverse round-trip = %v, want %v", back, p)
	}
}

func TestMat4TransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100, 100)
	d := m.TransformDirection(Vec3{0, 0, 1})
	if !vecNear(d, Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("TransformDirection() = %v, want (0,0,1)", d)
	}
}
