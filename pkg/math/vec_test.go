package math

import (
	gomath "math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, want zero vector", zero)
	}
}

func TestVec3Mul(t *testing.T) {
	got := Vec3{2, 3, 4}.Mul(Vec3{0.5, 2, -1})
	want := Vec3{1, 6, -4}
	if got != want {
		t.Errorf("Vec3.Mul() = %v, want %v", got, want)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, -4, 2}
	got := a.Lerp(b, 0.5)
	want := Vec3{5, -2, 1}
	if got != want {
		t.Errorf("Vec3.Lerp(0.5) = %v, want %v", got, want)
	}
}

func TestVec2Distance(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{3, 4}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Vec2.Distance() = %v, want 5", got)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{gomath.Pi / 2, gomath.Pi / 2},
		{3 * gomath.Pi / 2, -gomath.Pi / 2},
		{-3 * gomath.Pi / 2, gomath.Pi / 2},
		{2 * gomath.Pi, 0},
	}
	for _, tt := range tests {
		got := WrapAngle(tt.in)
		if Abs(got-tt.want) > 1e-5 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
