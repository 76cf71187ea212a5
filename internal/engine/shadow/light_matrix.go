package shadow

import (
	gomath "math"

	"github.com/mosslight/walkabout/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	half := b.Max.Sub(b.Min).Scale(0.5)
	return sqrt32(half.X*half.X + half.Y*half.Y + half.Z*half.Z)
}

// DirectionalLightMatrix computes the view-projection matrix for the
// shadow depth pass covering the whole scene.
// lightDir is the normalized direction TO the light (sun direction).
func DirectionalLightMatrix(lightDir math.Vec3, sceneBounds AABB) math.Mat4 {
	center := sceneBounds.Center()
	radius := sceneBounds.Radius()

	// Position light far enough to encompass entire scene
	lightDistance := radius * 2.0
	lightPos := center.Add(lightDir.Scale(lightDistance))

	view := math.LookAt(lightPos, center, lightUp(lightDir))

	// Orthographic projection sized to encompass the scene, with padding
	// to avoid edge artifacts
	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := lightDistance + radius + padding

	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)

	return proj.Mul(view)
}

// FollowLightMatrix computes a tighter light matrix centered under the
// camera. The shadow area follows the camera, so nearby shadows keep
// their resolution on large terrains.
func FollowLightMatrix(lightDir math.Vec3, sceneBounds AABB, focus math.Vec3, focusRadius float32) math.Mat4 {
	center := sceneBounds.Center()

	// Keep Y at scene center so terrain height changes don't swim the map
	focusCenter := math.Vec3{X: focus.X, Y: center.Y, Z: focus.Z}

	shadowRadius := focusRadius
	if shadowRadius < 10 {
		shadowRadius = 10
	}
	if r := sceneBounds.Radius(); shadowRadius > r {
		shadowRadius = r
	}

	// Light distance must cover the scene height
	sceneHeight := sceneBounds.Max.Y - sceneBounds.Min.Y
	lightDistance := shadowRadius + sceneHeight
	lightPos := focusCenter.Add(lightDir.Scale(lightDistance))

	view := math.LookAt(lightPos, focusCenter, lightUp(lightDir))

	padding := shadowRadius * 0.1
	halfSize := shadowRadius + padding
	near := float32(0.1)
	far := lightDistance + sceneHeight + padding

	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)

	return proj.Mul(view)
}

// lightUp picks an up vector that is not parallel with the light
// direction.
func lightUp(lightDir math.Vec3) math.Vec3 {
	if abs32(lightDir.Y) > 0.99 {
		return math.Vec3{X: 0, Y: 0, Z: 1}
	}
	return math.Vec3{X: 0, Y: 1, Z: 0}
}

// sqrt32 returns the square root of a float32.
func sqrt32(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
