package main

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/mosslight/walkabout/pkg/formats"
)

// Palette cells in hero.png. Each body part samples the center of one
// cell, so every face of a box comes out a single flat color.
const (
	cellSkin = iota
	cellShirt
	cellSleeve
	cellBelt
	cellPants
	cellBoots
)

const paletteCols = 4

var paletteColors = []color.RGBA{
	cellSkin:   {R: 221, G: 181, B: 146, A: 255},
	cellShirt:  {R: 64, G: 106, B: 156, A: 255},
	cellSleeve: {R: 56, G: 94, B: 140, A: 255},
	cellBelt:   {R: 70, G: 66, B: 62, A: 255},
	cellPants:  {R: 84, G: 92, B: 108, A: 255},
	cellBoots:  {R: 52, G: 50, B: 54, A: 255},
}

// heroTexture builds the flat-color palette the hero mesh indexes into.
func heroTexture() image.Image {
	const cell = 16
	img := image.NewRGBA(image.Rect(0, 0, paletteCols*cell, paletteCols*cell))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{128, 128, 128, 255}}, image.Point{}, draw.Src)

	for i, c := range paletteColors {
		x := (i % paletteCols) * cell
		y := (i / paletteCols) * cell
		draw.Draw(img, image.Rect(x, y, x+cell, y+cell), &image.Uniform{c}, image.Point{}, draw.Src)
	}
	return img
}

func cellUV(i int) [2]float32 {
	col := i % paletteCols
	row := i / paletteCols
	return [2]float32{
		(float32(col) + 0.5) / paletteCols,
		(float32(row) + 0.5) / paletteCols,
	}
}

// heroBone pairs a joint with its local rest offset from the parent.
type heroBone struct {
	name   string
	parent int16
	local  [3]float32
}

// The skeleton is a simple biped, ~1.87 units tall, facing +Z. Parents
// come before children, as the mesh format requires.
var heroBones = []heroBone{
	{"pelvis", -1, [3]float32{0, 0.95, 0}},
	{"spine", 0, [3]float32{0, 0.25, 0}},
	{"head", 1, [3]float32{0, 0.42, 0}},
	{"arm_l", 1, [3]float32{0.26, 0.30, 0}},
	{"forearm_l", 3, [3]float32{0, -0.28, 0}},
	{"arm_r", 1, [3]float32{-0.26, 0.30, 0}},
	{"forearm_r", 5, [3]float32{0, -0.28, 0}},
	{"thigh_l", 0, [3]float32{0.11, -0.03, 0}},
	{"shin_l", 7, [3]float32{0, -0.44, 0}},
	{"thigh_r", 0, [3]float32{-0.11, -0.03, 0}},
	{"shin_r", 9, [3]float32{0, -0.44, 0}},
}

// heroPart is one box of the body, rigidly skinned to a single bone.
// Centers and half extents are in model space at the rest pose; each
// box is placed so its driving joint sits at the end it hinges from.
type heroPart struct {
	bone   uint8
	center [3]float32
	half   [3]float32
	cell   int
}

var heroParts = []heroPart{
	{0, [3]float32{0, 0.98, 0}, [3]float32{0.17, 0.11, 0.11}, cellBelt},
	{1, [3]float32{0, 1.36, 0}, [3]float32{0.19, 0.22, 0.12}, cellShirt},
	{2, [3]float32{0, 1.74, 0}, [3]float32{0.12, 0.13, 0.12}, cellSkin},
	{3, [3]float32{0.30, 1.36, 0}, [3]float32{0.07, 0.16, 0.07}, cellSleeve},
	{4, [3]float32{0.30, 1.06, 0}, [3]float32{0.06, 0.16, 0.06}, cellSkin},
	{5, [3]float32{-0.30, 1.36, 0}, [3]float32{0.07, 0.16, 0.07}, cellSleeve},
	{6, [3]float32{-0.30, 1.06, 0}, [3]float32{0.06, 0.16, 0.06}, cellSkin},
	{7, [3]float32{0.11, 0.70, 0}, [3]float32{0.08, 0.23, 0.09}, cellPants},
	{8, [3]float32{0.11, 0.24, 0}, [3]float32{0.07, 0.24, 0.08}, cellBoots},
	{9, [3]float32{-0.11, 0.70, 0}, [3]float32{0.08, 0.23, 0.09}, cellPants},
	{10, [3]float32{-0.11, 0.24, 0}, [3]float32{0.07, 0.24, 0.08}, cellBoots},
}

// heroMesh assembles the skinned biped. Boxes are modeled in world rest
// positions, so with identity rest rotations the inverse bind of each
// bone is a plain translation by its negated rest position.
func heroMesh() *formats.SKM {
	mesh := &formats.SKM{
		Bones:   make([]formats.SKMBone, len(heroBones)),
		Texture: "hero.png",
	}

	world := make([][3]float32, len(heroBones))
	for i, b := range heroBones {
		world[i] = b.local
		if b.parent >= 0 {
			p := world[b.parent]
			world[i] = [3]float32{p[0] + b.local[0], p[1] + b.local[1], p[2] + b.local[2]}
		}
		mesh.Bones[i] = formats.SKMBone{
			Name:            b.name,
			Parent:          b.parent,
			RestTranslation: b.local,
			RestRotation:    [4]float32{0, 0, 0, 1},
			RestScale:       [3]float32{1, 1, 1},
			InverseBind:     translationMatrix(-world[i][0], -world[i][1], -world[i][2]),
		}
	}

	for _, part := range heroParts {
		appendBox(mesh, part)
	}
	return mesh
}

func translationMatrix(x, y, z float32) [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// boxFace defines one face by its outward normal and the two in-plane
// axes u and v, chosen so that u cross v equals the normal. Walking the
// corners (-u-v, +u-v, +u+v, -u+v) then yields counter-clockwise
// triangles seen from outside, which is what backface culling expects.
type boxFace struct {
	n, u, v [3]float32
}

var boxFaces = []boxFace{
	{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
	{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
}

func appendBox(mesh *formats.SKM, part heroPart) {
	uv := cellUV(part.cell)

	for _, face := range boxFaces {
		base := uint32(len(mesh.Vertices))
		for _, s := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var pos [3]float32
			for i := 0; i < 3; i++ {
				pos[i] = part.center[i] +
					face.n[i]*extent(part.half, face.n) +
					face.u[i]*extent(part.half, face.u)*s[0] +
					face.v[i]*extent(part.half, face.v)*s[1]
			}
			mesh.Vertices = append(mesh.Vertices, formats.SKMVertex{
				Position: pos,
				Normal:   face.n,
				UV:       uv,
				Bones:    [4]uint8{part.bone, 0, 0, 0},
				Weights:  [4]float32{1, 0, 0, 0},
			})
		}
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
}

// extent returns the half extent along the axis a points down.
func extent(half [3]float32, a [3]float32) float32 {
	for i := 0; i < 3; i++ {
		if a[i] != 0 {
			return half[i]
		}
	}
	return 0
}
