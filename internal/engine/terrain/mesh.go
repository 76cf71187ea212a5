package terrain

import (
	"github.com/mosslight/walkabout/pkg/math"
)

// BuildMesh creates a render mesh for the heightfield. The mesh has one
// vertex per grid sample with two triangles per cell, smooth normals from
// central height differences, and texture coordinates tiled across the
// terrain.
func (h *Heightfield) BuildMesh() *Mesh {
	segsX := h.Cols - 1
	segsZ := h.Rows - 1

	vertices := make([]Vertex, 0, h.Rows*h.Cols)
	for r := 0; r < h.Rows; r++ {
		z := h.Bounds.Min.Z + float32(r)*h.CellSize
		for c := 0; c < h.Cols; c++ {
			x := h.Bounds.Min.X + float32(c)*h.CellSize
			vertices = append(vertices, Vertex{
				Position: math.Vec3{X: x, Y: h.Heights[r][c], Z: z},
				Normal:   h.gridNormal(r, c),
				UV: math.Vec2{
					X: float32(c) / float32(segsX) * h.textureRepeat,
					Y: float32(r) / float32(segsZ) * h.textureRepeat,
				},
			})
		}
	}

	// Two counter-clockwise triangles per cell, viewed from above.
	indices := make([]uint32, 0, segsX*segsZ*6)
	for r := 0; r < segsZ; r++ {
		for c := 0; c < segsX; c++ {
			i00 := uint32(r*h.Cols + c)
			i10 := i00 + 1
			i01 := i00 + uint32(h.Cols)
			i11 := i01 + 1
			indices = append(indices,
				i00, i01, i10,
				i10, i01, i11,
			)
		}
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   h.Bounds,
	}
}

// gridNormal computes the smooth normal at a grid vertex from the height
// differences of its neighbors. Neighbors outside the grid clamp to the
// edges.
func (h *Heightfield) gridNormal(r, c int) math.Vec3 {
	hl := h.Heights[r][clampi(c-1, 0, h.Cols-1)]
	hr := h.Heights[r][clampi(c+1, 0, h.Cols-1)]
	hn := h.Heights[clampi(r-1, 0, h.Rows-1)][c]
	hs := h.Heights[clampi(r+1, 0, h.Rows-1)][c]
	return math.Vec3{X: hl - hr, Y: 2 * h.CellSize, Z: hn - hs}.Normalize()
}
