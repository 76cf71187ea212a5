package math

import "math"

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp returns the linear interpolation between a and b at t.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// MoveTowards moves current towards target by at most maxDelta.
func MoveTowards(current, target, maxDelta float32) float32 {
	d := target - current
	if d > maxDelta {
		return current + maxDelta
	}
	if d < -maxDelta {
		return current - maxDelta
	}
	return target
}

// DampFactor returns a frame-rate independent interpolation factor for
// exponential smoothing with the given half-life style smoothing time.
// A smoothing time of zero disables smoothing (factor 1).
func DampFactor(smoothing, dt float32) float32 {
	if smoothing <= 0 {
		return 1
	}
	return 1 - float32(math.Exp(float64(-dt/smoothing)))
}

// WrapAngle wraps an angle in radians to the range (-pi, pi].
func WrapAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	a = float32(math.Mod(float64(a), twoPi))
	if a > math.Pi {
		a -= twoPi
	} else if a <= -math.Pi {
		a += twoPi
	}
	return a
}

// LerpAngle interpolates between two angles along the shortest arc.
func LerpAngle(a, b, t float32) float32 {
	return WrapAngle(a + WrapAngle(b-a)*t)
}
