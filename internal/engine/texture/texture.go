// Package texture provides image decoding and texture processing utilities.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path"
	"strings"
)

// DecodeImage decodes image data, choosing the decoder from the file
// extension. TGA uses the built-in decoder; everything else goes through
// image.Decode, so PNG, JPEG and BMP decoders must be registered by the
// importing binary.
func DecodeImage(data []byte, name string) (image.Image, error) {
	if strings.ToLower(path.Ext(name)) == ".tga" {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

// DecodeRGBA decodes image data and converts it to RGBA, ready for GPU
// upload.
func DecodeRGBA(data []byte, name string) (*image.RGBA, error) {
	img, err := DecodeImage(data, name)
	if err != nil {
		return nil, err
	}
	return ImageToRGBA(img), nil
}

// ImageToRGBA converts any image.Image to *image.RGBA.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			rgba.SetRGBA(x, y, color.RGBA{
				R: uint8(r16 >> 8),
				G: uint8(g16 >> 8),
				B: uint8(b16 >> 8),
				A: uint8(a16 >> 8),
			})
		}
	}

	return rgba
}

// Solid returns a 1x1 RGBA image of the given color. It is the fallback
// texture when an asset is missing.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}
