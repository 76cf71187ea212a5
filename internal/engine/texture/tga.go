package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// TGA image types handled by DecodeTGA.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// tgaHeader is the fixed 18-byte file header.
type tgaHeader struct {
	idLength     int
	colorMapType byte
	imageType    byte
	width        int
	height       int
	depth        int
	descriptor   byte
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("short TGA header: %d bytes", len(data))
	}
	h := tgaHeader{
		idLength:     int(data[0]),
		colorMapType: data[1],
		imageType:    data[2],
		width:        int(binary.LittleEndian.Uint16(data[12:])),
		height:       int(binary.LittleEndian.Uint16(data[14:])),
		depth:        int(data[16]),
		descriptor:   data[17],
	}
	if h.colorMapType != 0 {
		return tgaHeader{}, fmt.Errorf("color-mapped TGA not supported")
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return tgaHeader{}, fmt.Errorf("unsupported TGA type %d (only true-color supported)", h.imageType)
	}
	if h.depth != 24 && h.depth != 32 {
		return tgaHeader{}, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", h.depth)
	}
	return h, nil
}

// tgaWriter places decoded pixels in file order. Bottom-up files (the
// TGA default) are flipped during the write so the result is always
// top-down.
type tgaWriter struct {
	img         *image.RGBA
	width       int
	height      int
	topToBottom bool
	pos         int
}

func (w *tgaWriter) full() bool {
	return w.pos >= w.width*w.height
}

func (w *tgaWriter) put(c color.RGBA) {
	x := w.pos % w.width
	y := w.pos / w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.pos++
}

// DecodeTGA decodes a TGA image file. Supports uncompressed true-color
// (type 2) and RLE compressed (type 10) files with 24 or 32 bits per
// pixel.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA id field truncated")
	}
	pixels := data[offset:]

	w := &tgaWriter{
		img:    image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		width:  h.width,
		height: h.height,
		// Bit 5 of the descriptor means rows are stored top-to-bottom
		topToBottom: h.descriptor&0x20 != 0,
	}
	stride := h.depth / 8

	if h.imageType == TGATypeUncompressed {
		err = decodeTGARaw(w, pixels, stride)
	} else {
		err = decodeTGARLE(w, pixels, stride)
	}
	if err != nil {
		return nil, err
	}
	return w.img, nil
}

func decodeTGARaw(w *tgaWriter, pixels []byte, stride int) error {
	if len(pixels) < w.width*w.height*stride {
		return fmt.Errorf("TGA pixel data truncated")
	}
	for i := 0; !w.full(); i += stride {
		w.put(tgaColor(pixels[i:], stride))
	}
	return nil
}

func decodeTGARLE(w *tgaWriter, pixels []byte, stride int) error {
	i := 0
	for !w.full() {
		if i >= len(pixels) {
			return fmt.Errorf("TGA RLE data truncated")
		}
		packet := pixels[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel value repeated count times
			if i+stride > len(pixels) {
				return fmt.Errorf("TGA RLE data truncated")
			}
			c := tgaColor(pixels[i:], stride)
			i += stride
			for n := 0; n < count && !w.full(); n++ {
				w.put(c)
			}
		} else {
			// Literal packet: count distinct pixels
			for n := 0; n < count && !w.full(); n++ {
				if i+stride > len(pixels) {
					return fmt.Errorf("TGA RLE data truncated")
				}
				w.put(tgaColor(pixels[i:], stride))
				i += stride
			}
		}
	}
	return nil
}

// tgaColor reads one BGR(A) pixel.
func tgaColor(p []byte, stride int) color.RGBA {
	c := color.RGBA{B: p[0], G: p[1], R: p[2], A: 255}
	if stride == 4 {
		c.A = p[3]
	}
	return c
}
