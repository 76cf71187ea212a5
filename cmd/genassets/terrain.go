package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

// heightmapImage renders a radial island: high ground in the middle
// falling off to sea level at the edges, roughened with a few octaves
// of value noise so the terrain reads as hills rather than a cone.
func heightmapImage(rng *rand.Rand, size int) image.Image {
	noise := newValueNoise(rng, 16)
	img := image.NewGray(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Normalized coordinates in -1..1 with 0 at the center.
			nx := float64(x)/float64(size-1)*2 - 1
			nz := float64(y)/float64(size-1)*2 - 1
			d := math.Sqrt(nx*nx + nz*nz)

			// Island profile: flat-ish top, shore at d ~0.95.
			base := 1 - smoothstep(0.2, 0.95, d)

			fx := float64(x) / float64(size)
			fz := float64(y) / float64(size)
			n := 0.6*noise.at(fx*4, fz*4) +
				0.3*noise.at(fx*8, fz*8) +
				0.1*noise.at(fx*16, fz*16)

			h := base * (0.55 + 0.45*n)
			img.SetGray(x, y, color.Gray{Y: uint8(clamp01(h) * 255)})
		}
	}
	return img
}

// grassTexture builds a tileable ground texture: two-tone green checker
// with per-pixel jitter and scattered lighter blades.
func grassTexture(rng *rand.Rand, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	base := [3]int{72, 112, 58}
	alt := [3]int{63, 101, 52}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := base
			if (x/32+y/32)%2 == 1 {
				c = alt
			}
			j := rng.Intn(13) - 6
			img.SetRGBA(x, y, color.RGBA{
				R: clampByte(c[0] + j),
				G: clampByte(c[1] + j),
				B: clampByte(c[2] + j),
				A: 255,
			})
		}
	}

	// Blades: short bright flecks.
	for i := 0; i < size*size/50; i++ {
		x := rng.Intn(size)
		y := rng.Intn(size)
		img.SetRGBA(x, y, color.RGBA{R: 104, G: 150, B: 78, A: 255})
		if y > 0 {
			img.SetRGBA(x, y-1, color.RGBA{R: 94, G: 138, B: 70, A: 255})
		}
	}
	return img
}

// valueNoise is bilinearly interpolated lattice noise. Coordinates are
// in lattice cells and wrap, so sampling stays tileable.
type valueNoise struct {
	lattice []float64
	size    int
}

func newValueNoise(rng *rand.Rand, size int) *valueNoise {
	n := &valueNoise{
		lattice: make([]float64, size*size),
		size:    size,
	}
	for i := range n.lattice {
		n.lattice[i] = rng.Float64()
	}
	return n
}

func (n *valueNoise) at(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := fade(x - float64(x0))
	fy := fade(y - float64(y0))

	v00 := n.cell(x0, y0)
	v10 := n.cell(x0+1, y0)
	v01 := n.cell(x0, y0+1)
	v11 := n.cell(x0+1, y0+1)

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

func (n *valueNoise) cell(x, y int) float64 {
	x = ((x % n.size) + n.size) % n.size
	y = ((y % n.size) + n.size) % n.size
	return n.lattice[y*n.size+x]
}

// fade is the smoothstep curve applied to interpolation weights.
func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// writePNG encodes img, creating parent directories as needed.
func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return err
	}
	fmt.Printf("  wrote %s\n", path)
	return nil
}
