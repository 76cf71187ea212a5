// Package camera provides the third-person follow camera.
package camera

import (
	gomath "math"

	"github.com/mosslight/walkabout/pkg/math"
)

// Follow orbits a moving target from behind and above, easing toward the
// target as it moves.
type Follow struct {
	// Camera orientation
	Yaw   float32 // Horizontal rotation around target (radians)
	Pitch float32 // Vertical angle (radians)

	// Distance from target
	Distance    float32
	MinDistance float32
	MaxDistance float32

	// Pitch constraints
	MinPitch float32
	MaxPitch float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// LookHeight raises the look-at point above the target's feet.
	LookHeight float32

	// Smoothing is the easing time constant in seconds. Zero snaps the
	// camera to the target every frame.
	Smoothing float32

	// Projection
	FOV  float32 // Vertical field of view in radians
	Near float32
	Far  float32

	position math.Vec3
	lookAt   math.Vec3
	snapped  bool
}

// NewFollow creates a follow camera with prototype defaults.
func NewFollow() *Follow {
	return &Follow{
		Yaw:             0.0,
		Pitch:           0.32, // ~18 degrees
		Distance:        8.0,
		MinDistance:     3.0,
		MaxDistance:     22.0,
		MinPitch:        0.08,
		MaxPitch:        1.35,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.09,
		LookHeight:      1.4,
		Smoothing:       0.12,
		FOV:             float32(gomath.Pi / 4),
		Near:            0.1,
		Far:             600.0,
	}
}

// Update moves the camera toward its desired pose behind the target. The
// first call snaps directly so the scene never starts with the camera at
// the origin.
func (c *Follow) Update(target math.Vec3, dt float32) {
	desired := c.desiredPosition(target)
	look := math.Vec3{X: target.X, Y: target.Y + c.LookHeight, Z: target.Z}

	if !c.snapped || c.Smoothing <= 0 {
		c.position = desired
		c.lookAt = look
		c.snapped = true
		return
	}

	t := math.DampFactor(c.Smoothing, dt)
	c.position = c.position.Lerp(desired, t)
	c.lookAt = c.lookAt.Lerp(look, t)
}

// desiredPosition computes the un-smoothed camera position for a target.
func (c *Follow) desiredPosition(target math.Vec3) math.Vec3 {
	offsetY := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	horizDist := c.Distance * float32(gomath.Cos(float64(c.Pitch)))
	offsetX := horizDist * float32(gomath.Sin(float64(c.Yaw)))
	offsetZ := horizDist * float32(gomath.Cos(float64(c.Yaw)))

	return math.Vec3{
		X: target.X - offsetX,
		Y: target.Y + c.LookHeight + offsetY,
		Z: target.Z - offsetZ,
	}
}

// Position returns the current smoothed camera position.
func (c *Follow) Position() math.Vec3 {
	return c.position
}

// ViewMatrix returns the view matrix for the current smoothed pose.
func (c *Follow) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.position, c.lookAt, up)
}

// ProjectionMatrix returns the perspective projection for an aspect ratio.
func (c *Follow) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag rotates the camera around the target from a mouse drag delta.
func (c *Follow) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance from target.
func (c *Follow) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// ForwardDirection returns the camera's forward direction on the XZ plane.
func (c *Follow) ForwardDirection() (x, z float32) {
	return float32(gomath.Sin(float64(c.Yaw))), float32(gomath.Cos(float64(c.Yaw)))
}

// RightDirection returns the camera's right direction on the XZ plane.
func (c *Follow) RightDirection() (x, z float32) {
	return float32(-gomath.Cos(float64(c.Yaw))), float32(gomath.Sin(float64(c.Yaw)))
}
