// Package placeholder draws a starter icon for projects that have no
// source artwork yet.
package placeholder

import (
	"image"

	"github.com/fogleman/gg"
)

// Proportions of the drawn shapes relative to the canvas size.
const (
	cornerFrac = 0.18
	ringFrac   = 0.32
	strokeFrac = 0.06
	discFrac   = 0.12
)

// Generate draws a size x size placeholder icon: a rounded square in the
// background color with a ring and a solid disc centered on it. Corners
// outside the rounded square stay transparent.
func Generate(size int, background string) image.Image {
	dc := gg.NewContext(size, size)
	s := float64(size)

	dc.SetHexColor(background)
	dc.DrawRoundedRectangle(0, 0, s, s, s*cornerFrac)
	dc.Fill()

	dc.SetRGBA(1, 1, 1, 0.35)
	dc.SetLineWidth(s * strokeFrac)
	dc.DrawCircle(s/2, s/2, s*ringFrac)
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 1)
	dc.DrawCircle(s/2, s/2, s*discFrac)
	dc.Fill()

	return dc.Image()
}
