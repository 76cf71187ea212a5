package terrain

import (
	"errors"
	"fmt"
	"image"

	"github.com/mosslight/walkabout/pkg/math"
)

var (
	// ErrImageTooSmall is returned when the heightmap image is smaller
	// than 2x2 pixels.
	ErrImageTooSmall = errors.New("terrain: heightmap image too small")
	// ErrInvalidOptions is returned when construction options are out of
	// range.
	ErrInvalidOptions = errors.New("terrain: invalid options")
)

// FromImage builds a heightfield from a grayscale heightmap image. The
// image luminance is resampled onto the render grid with bicubic
// interpolation, then smoothed with iterative 3x3 box filtering and scaled
// to world heights.
func FromImage(img image.Image, opts Options) (*Heightfield, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW < 2 || srcH < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooSmall, srcW, srcH)
	}

	src := luminanceGrid(img)

	rows := opts.Segments + 1
	cols := opts.Segments + 1
	heights := newGrid(rows, cols)

	// Resample the source grid onto the render grid. Grid vertex (r, c)
	// maps to the source position so that the image corners land exactly
	// on the terrain corners.
	for r := 0; r < rows; r++ {
		sy := float32(r) / float32(opts.Segments) * float32(srcH-1)
		for c := 0; c < cols; c++ {
			sx := float32(c) / float32(opts.Segments) * float32(srcW-1)
			heights[r][c] = sampleBicubic(src, sx, sy)
		}
	}

	for i := 0; i < opts.Smoothing; i++ {
		heights = boxSmooth(heights)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			heights[r][c] *= opts.HeightScale
		}
	}

	return newHeightfield(heights, opts), nil
}

// Flat builds a heightfield with all heights at zero. It is the fallback
// when no heightmap image is available.
func Flat(opts Options) (*Heightfield, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return newHeightfield(newGrid(opts.Segments+1, opts.Segments+1), opts), nil
}

func validateOptions(opts Options) error {
	if opts.WorldSize <= 0 {
		return fmt.Errorf("%w: world size %v", ErrInvalidOptions, opts.WorldSize)
	}
	if opts.Segments < 1 {
		return fmt.Errorf("%w: segments %d", ErrInvalidOptions, opts.Segments)
	}
	if opts.Smoothing < 0 {
		return fmt.Errorf("%w: smoothing %d", ErrInvalidOptions, opts.Smoothing)
	}
	return nil
}

func newHeightfield(heights [][]float32, opts Options) *Heightfield {
	rows := len(heights)
	cols := len(heights[0])

	minH, maxH := heights[0][0], heights[0][0]
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			h := heights[r][c]
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
		}
	}

	half := opts.WorldSize / 2
	return &Heightfield{
		Heights:  heights,
		Rows:     rows,
		Cols:     cols,
		CellSize: opts.WorldSize / float32(opts.Segments),
		Bounds: Bounds{
			Min: math.Vec3{X: -half, Y: minH, Z: -half},
			Max: math.Vec3{X: half, Y: maxH, Z: half},
		},
		textureRepeat: opts.TextureRepeat,
	}
}

// HeightAt returns the interpolated terrain height at a world position.
// Positions outside the terrain clamp to the nearest edge.
func (h *Heightfield) HeightAt(x, z float32) float32 {
	gx := (x - h.Bounds.Min.X) / h.CellSize
	gz := (z - h.Bounds.Min.Z) / h.CellSize

	c := int(gx)
	r := int(gz)

	// Clamp to valid range
	if c < 0 {
		c = 0
	}
	if c > h.Cols-2 {
		c = h.Cols - 2
	}
	if r < 0 {
		r = 0
	}
	if r > h.Rows-2 {
		r = h.Rows - 2
	}

	// Fractional position within the cell (0-1)
	fx := clampf(gx-float32(c), 0, 1)
	fz := clampf(gz-float32(r), 0, 1)

	// Bilinear interpolation: lerp along both cell edges, then between them
	north := h.Heights[r][c]*(1-fx) + h.Heights[r][c+1]*fx
	south := h.Heights[r+1][c]*(1-fx) + h.Heights[r+1][c+1]*fx
	return north*(1-fz) + south*fz
}

// NormalAt returns the terrain surface normal at a world position,
// computed from central height differences.
func (h *Heightfield) NormalAt(x, z float32) math.Vec3 {
	e := h.CellSize
	dx := h.HeightAt(x-e, z) - h.HeightAt(x+e, z)
	dz := h.HeightAt(x, z-e) - h.HeightAt(x, z+e)
	return math.Vec3{X: dx, Y: 2 * e, Z: dz}.Normalize()
}

// Contains reports whether a world position lies within the terrain
// footprint.
func (h *Heightfield) Contains(x, z float32) bool {
	return x >= h.Bounds.Min.X && x <= h.Bounds.Max.X &&
		z >= h.Bounds.Min.Z && z <= h.Bounds.Max.Z
}

// luminanceGrid extracts normalized luminance values from an image.
func luminanceGrid(img image.Image) [][]float32 {
	bounds := img.Bounds()
	cols := bounds.Dx()
	rows := bounds.Dy()

	grid := newGrid(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			grid[y][x] = float32(lum / 65535.0)
		}
	}
	return grid
}

func newGrid(rows, cols int) [][]float32 {
	grid := make([][]float32, rows)
	for r := range grid {
		grid[r] = make([]float32, cols)
	}
	return grid
}

// sampleBicubic performs Catmull-Rom bicubic interpolation of a grid at a
// fractional position. Indices outside the grid clamp to the edges.
func sampleBicubic(grid [][]float32, x, y float32) float32 {
	rows := len(grid)
	cols := len(grid[0])

	cx := int(floorf(x))
	cy := int(floorf(y))
	fx := x - float32(cx)
	fy := y - float32(cy)

	var col [4]float32
	for i := range col {
		r := clampi(cy-1+i, 0, rows-1)
		col[i] = catmullRom(
			grid[r][clampi(cx-1, 0, cols-1)],
			grid[r][clampi(cx, 0, cols-1)],
			grid[r][clampi(cx+1, 0, cols-1)],
			grid[r][clampi(cx+2, 0, cols-1)],
			fx,
		)
	}
	return catmullRom(col[0], col[1], col[2], col[3], fy)
}

// catmullRom evaluates the Catmull-Rom spline through p1 and p2 at t.
func catmullRom(p0, p1, p2, p3, t float32) float32 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// boxSmooth applies one 3x3 box filter pass over the grid. Samples outside
// the grid clamp to the edges, so smoothing never expands the height range.
func boxSmooth(grid [][]float32) [][]float32 {
	rows := len(grid)
	cols := len(grid[0])

	out := newGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float32
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					sum += grid[clampi(r+dr, 0, rows-1)][clampi(c+dc, 0, cols-1)]
				}
			}
			out[r][c] = sum / 9
		}
	}
	return out
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func floorf(v float32) float32 {
	f := float32(int(v))
	if v < 0 && f != v {
		f--
	}
	return f
}
