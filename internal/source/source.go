// Package source loads and checks the source image a generation run
// starts from.
package source

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// RequiredSize is the expected edge length of a source image in pixels.
// Smaller sources still work but upscaled icons look soft, so a mismatch
// is reported as a warning rather than an error.
const RequiredSize = 1024

// Image is a decoded source image plus the metadata the pipeline needs.
type Image struct {
	Img    image.Image
	Path   string
	Format string
	Width  int
	Height int
	SHA256 string
	Bytes  int64
}

// Load reads and decodes a PNG or JPEG source image.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	b := img.Bounds()
	return &Image{
		Img:    img,
		Path:   path,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		SHA256: hex.EncodeToString(sum[:]),
		Bytes:  int64(len(data)),
	}, nil
}

// Warnings returns human-readable notes about a usable but imperfect
// source. An empty slice means the image is the recommended 1024x1024.
func (s *Image) Warnings() []string {
	var w []string
	if s.Width != s.Height {
		w = append(w, fmt.Sprintf("source image is %dx%d, not square; icons will be distorted", s.Width, s.Height))
	}
	if s.Width != RequiredSize || s.Height != RequiredSize {
		w = append(w, fmt.Sprintf("source image is %dx%d, recommended %dx%d", s.Width, s.Height, RequiredSize, RequiredSize))
	}
	return w
}
