package mathutil

import "math"

const (
	Epsilon1  = 0.1
	Epsilon3  = 0.001
	Epsilon6  = 0.000001
	Epsilon7  = 0.0000001
	Epsilon10 = 0.0000000001
	Epsilon12 = 0.000000000001
	Epsilon14 = 0.00000000000001
)

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EqualsEpsilon reports whether a and b are within an absolute epsilon of each other.
func EqualsEpsilon(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// NegativePiToPi wraps an angle in radians into [-π, π].
func NegativePiToPi(angle float64) float64 {
	if angle >= -math.Pi && angle <= math.Pi {
		return angle
	}
	return ZeroToTwoPi(angle+math.Pi) - math.Pi
}

// ZeroToTwoPi wraps an angle in radians into [0, 2π].
func ZeroToTwoPi(angle float64) float64 {
	if angle >= 0 && angle <= 2*math.Pi {
		return angle
	}
	mod := math.Mod(angle, 2*math.Pi)
	if mod < 0 {
		mod += 2 * math.Pi
	}
	if math.Abs(mod) < Epsilon14 && math.Abs(angle) > Epsilon14 {
		return 2 * math.Pi
	}
	return mod
}

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// ToDegrees converts radians to degrees.
func ToDegrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}
