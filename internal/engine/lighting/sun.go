// Package lighting provides the sun and hemisphere lighting model.
package lighting

import (
	gomath "math"

	"github.com/mosslight/walkabout/pkg/math"
)

// Sun is the directional key light.
type Sun struct {
	Azimuth   float32 // Rotation around Y axis in degrees (0-360)
	Elevation float32 // Elevation from horizon in degrees (0-90)
	Color     math.Vec3
	Intensity float32
}

// Direction returns the normalized direction vector pointing towards the
// sun.
func (s Sun) Direction() math.Vec3 {
	azRad := float64(s.Azimuth) * gomath.Pi / 180.0
	elRad := float64(s.Elevation) * gomath.Pi / 180.0

	// Spherical to Cartesian: azimuth around Y, elevation from horizon
	return math.Vec3{
		X: float32(gomath.Cos(elRad) * gomath.Sin(azRad)),
		Y: float32(gomath.Sin(elRad)),
		Z: float32(gomath.Cos(elRad) * gomath.Cos(azRad)),
	}
}

// Hemisphere is the sky/ground fill light. Surfaces facing up receive the
// sky color, surfaces facing down the ground color, blended by the surface
// normal's Y component.
type Hemisphere struct {
	SkyColor    math.Vec3
	GroundColor math.Vec3
	Intensity   float32
}

// Environment bundles the scene lighting.
type Environment struct {
	Sun        Sun
	Hemisphere Hemisphere
	Ambient    math.Vec3
}

// Default returns the daytime lighting setup.
func Default() Environment {
	return Environment{
		Sun: Sun{
			Azimuth:   235,
			Elevation: 52,
			Color:     math.Vec3{X: 1.0, Y: 0.98, Z: 0.92},
			Intensity: 1.0,
		},
		Hemisphere: Hemisphere{
			SkyColor:    math.Vec3{X: 0.55, Y: 0.68, Z: 0.85},
			GroundColor: math.Vec3{X: 0.35, Y: 0.30, Z: 0.22},
			Intensity:   0.55,
		},
		Ambient: math.Vec3{X: 0.18, Y: 0.18, Z: 0.20},
	}
}
