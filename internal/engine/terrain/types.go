// Package terrain builds heightfield terrain from grayscale heightmap images.
package terrain

import (
	"github.com/mosslight/walkabout/pkg/math"
)

// Options controls heightfield construction.
type Options struct {
	// WorldSize is the terrain side length in world units. The terrain is
	// centered on the origin.
	WorldSize float32
	// Segments is the number of grid cells per side of the render mesh.
	Segments int
	// HeightScale is the world height of a full-white heightmap pixel.
	HeightScale float32
	// Smoothing is the number of 3x3 box smoothing iterations applied
	// after resampling.
	Smoothing int
	// TextureRepeat is how many times the ground texture tiles across the
	// full terrain.
	TextureRepeat float32
}

// DefaultOptions returns options for a medium-sized terrain.
func DefaultOptions() Options {
	return Options{
		WorldSize:     200,
		Segments:      128,
		HeightScale:   14,
		Smoothing:     2,
		TextureRepeat: 24,
	}
}

// Heightfield is a regular grid of terrain heights centered on the origin.
// Heights is indexed [row][col] where rows advance along +Z and columns
// along +X.
type Heightfield struct {
	Heights  [][]float32
	Rows     int
	Cols     int
	CellSize float32
	Bounds   Bounds

	textureRepeat float32
}

// Vertex is a terrain mesh vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Mesh holds terrain mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center point of the bounds.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
