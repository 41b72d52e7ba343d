package math

import "math"

// WrapAngle normalizes an angle in radians to [-π, π].
func WrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Atan2 is float32 atan2.
func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

// Abs returns the absolute value.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Sin is float32 sine.
func Sin(a float32) float32 {
	return float32(math.Sin(float64(a)))
}

// Cos is float32 cosine.
func Cos(a float32) float32 {
	return float32(math.Cos(float64(a)))
}
