// Package debug holds development helpers hung off debug keys.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes timestamped PNG captures of the framebuffer.
type Screenshots struct {
	dir    string
	prefix string
}

// NewScreenshots creates a capture writer. dir may be empty for the
// working directory.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix}
}

// SetDir changes the output directory for subsequent captures.
func (s *Screenshots) SetDir(dir string) {
	s.dir = dir
}

// SavePixels writes raw RGBA pixel data as read back from GL. The rows
// arrive bottom-up and are flipped during the copy.
func (s *Screenshots) SavePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}

	return s.SaveImage(img)
}

// SaveImage encodes img into a timestamped PNG and returns its path.
func (s *Screenshots) SaveImage(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := s.nextPath()
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return path, nil
}

func (s *Screenshots) nextPath() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, time.Now().Format("2006-01-02_15-04-05"))
	if s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}
