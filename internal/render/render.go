// Package render resamples the source image and encodes the output
// formats: PNG assets, the store feature graphic, and the Windows/macOS
// container formats.
package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/jackmordaunt/icns/v3"
	ico "github.com/sergeymakinen/go-ico"

	"github.com/Mavwarf/appicon/internal/paths"
)

// Feature graphic layout: landscape Play Store banner with the icon
// composited onto a solid background.
const (
	featureWidth    = 1024
	featureHeight   = 500
	featureIconSize = 400
	featureIconY    = 50
)

// Resize scales the source to w x h using Lanczos resampling.
func Resize(src image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(src, w, h, imaging.Lanczos)
}

// SavePNG writes img as a PNG, creating parent directories as needed.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// FeatureGraphic composes the 1024x500 store banner: a solid background
// with the icon resized to 400x400 and centered horizontally at y=50.
// The icon's alpha channel is respected.
func FeatureGraphic(src image.Image, background string) image.Image {
	dc := gg.NewContext(featureWidth, featureHeight)
	dc.SetHexColor(background)
	dc.Clear()

	icon := imaging.Resize(src, featureIconSize, featureIconSize, imaging.Lanczos)
	dc.DrawImage(icon, (featureWidth-featureIconSize)/2, featureIconY)
	return dc.Image()
}

// SaveICO writes a multi-frame Windows icon containing src resized to each
// of the given square frame sizes.
func SaveICO(src image.Image, path string, frameSizes []int) error {
	frames := make([]image.Image, len(frameSizes))
	for i, s := range frameSizes {
		frames[i] = imaging.Resize(src, s, s, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ico.EncodeAll(f, frames); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// SaveICNS writes an Apple icon container built from src. The encoder
// derives the embedded resolutions itself.
func SaveICNS(src image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := icns.Encode(f, src); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
