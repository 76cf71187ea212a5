package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// buildTGA assembles a minimal TGA byte slice for tests.
func buildTGA(imageType byte, width, height, bpp int, topToBottom bool, pixels []byte) []byte {
	var buf bytes.Buffer
	header := make([]byte, 18)
	header[2] = imageType
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = byte(bpp)
	if topToBottom {
		header[17] = 0x20
	}
	buf.Write(header)
	buf.Write(pixels)
	return buf.Bytes()
}

func TestDecodeTGAUncompressed24(t *testing.T) {
	// 2x1, top-to-bottom: blue pixel then red pixel (BGR order)
	data := buildTGA(TGATypeUncompressed, 2, 1, 24, true, []byte{
		255, 0, 0, // blue
		0, 0, 255, // red
	})

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}

	if got := img.At(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want blue", got)
	}
	if got := img.At(1, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (1,0) = %v, want red", got)
	}
}

func TestDecodeTGABottomUp(t *testing.T) {
	// 1x2 without the top-to-bottom flag: first stored row lands at the
	// bottom of the image.
	data := buildTGA(TGATypeUncompressed, 1, 2, 32, false, []byte{
		0, 255, 0, 255, // green, stored first
		0, 0, 255, 255, // red, stored second
	})

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}

	if got := img.At(0, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("bottom pixel = %v, want green", got)
	}
	if got := img.At(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("top pixel = %v, want red", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 4x1: RLE packet repeating one white pixel 3 times, then a raw
	// packet with one black pixel.
	pixels := []byte{
		0x82, 255, 255, 255, // RLE, count 3, white
		0x00, 0, 0, 0, // raw, count 1, black
	}
	data := buildTGA(TGATypeRLE, 4, 1, 24, true, pixels)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}

	for x := 0; x < 3; x++ {
		if got := img.At(x, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
			t.Errorf("pixel (%d,0) = %v, want white", x, got)
		}
	}
	if got := img.At(3, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel (3,0) = %v, want black", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "too short",
			data: make([]byte, 10),
		},
		{
			name: "color mapped",
			data: func() []byte {
				d := buildTGA(1, 1, 1, 24, true, []byte{0, 0, 0})
				d[1] = 1
				return d
			}(),
		},
		{
			name: "unsupported type",
			data: buildTGA(3, 1, 1, 24, true, []byte{0, 0, 0}),
		},
		{
			name: "unsupported bpp",
			data: buildTGA(TGATypeUncompressed, 1, 1, 16, true, []byte{0, 0}),
		},
		{
			name: "truncated pixels",
			data: buildTGA(TGATypeUncompressed, 4, 4, 24, true, []byte{0, 0, 0}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeImageDispatch(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}

	img, err := DecodeImage(buf.Bytes(), "ground.png")
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("decoded bounds = %v, want 2x2", img.Bounds())
	}

	tga := buildTGA(TGATypeUncompressed, 1, 1, 24, true, []byte{0, 0, 255})
	img, err = DecodeImage(tga, "CHARACTER.TGA")
	if err != nil {
		t.Fatalf("DecodeImage tga failed: %v", err)
	}
	if got := img.At(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("tga pixel = %v, want red", got)
	}

	if _, err := DecodeImage([]byte("not an image"), "bad.png"); err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestDecodeRGBA(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}

	rgba, err := DecodeRGBA(buf.Bytes(), "height.png")
	if err != nil {
		t.Fatalf("DecodeRGBA failed: %v", err)
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel = %v, want white", got)
	}
}

func TestImageToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.SetGray(0, 0, color.Gray{Y: 128})

	rgba := ImageToRGBA(gray)
	got := rgba.RGBAAt(0, 0)
	if got.R != 128 || got.G != 128 || got.B != 128 || got.A != 255 {
		t.Errorf("converted pixel = %v, want gray 128", got)
	}

	// Already-RGBA images pass through without copying.
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if ImageToRGBA(src) != src {
		t.Error("RGBA input should be returned as-is")
	}
}

func TestSolid(t *testing.T) {
	img := Solid(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("bounds = %v, want 1x1", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}
