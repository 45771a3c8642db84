// Package manifest builds the Contents.json files Xcode expects next to
// the icon PNGs in an asset catalog.
package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/Mavwarf/appicon/internal/paths"
	"github.com/Mavwarf/appicon/internal/sizes"
)

// Author identifies the manifest writer in the info block.
const Author = "appicon"

// Image is one icon entry in an asset catalog manifest.
type Image struct {
	Filename string `json:"filename"`
	Idiom    string `json:"idiom"`
	Scale    string `json:"scale"`
	Size     string `json:"size"`
}

// Info is the manifest trailer block.
type Info struct {
	Author  string `json:"author"`
	Version int    `json:"version"`
}

// Contents is a full asset catalog manifest.
type Contents struct {
	Images []Image `json:"images"`
	Info   Info    `json:"info"`
}

// macEntries lists the point size and scale pairs the macOS catalog
// wants. Each pair resolves to the PNG whose pixel width is size*scale.
var macEntries = []struct {
	Size  int
	Scale int
}{
	{16, 1}, {16, 2},
	{32, 1}, {32, 2},
	{128, 1}, {128, 2},
	{256, 1}, {256, 2},
	{512, 1}, {512, 2},
}

// IOS builds the AppIcon.appiconset manifest from the iOS target table.
func IOS() Contents {
	platform, _ := sizes.ByID("ios")
	images := make([]Image, 0, len(platform.Targets))
	for _, t := range platform.Targets {
		images = append(images, Image{
			Filename: t.FileName(),
			Idiom:    t.Idiom,
			Scale:    t.Scale,
			Size:     t.Size,
		})
	}
	return Contents{Images: images, Info: Info{Author: Author, Version: 1}}
}

// MacOS builds the macOS AppIcon.appiconset manifest.
func MacOS() Contents {
	images := make([]Image, 0, len(macEntries))
	for _, e := range macEntries {
		images = append(images, Image{
			Filename: fmt.Sprintf("app_icon_%d.png", e.Size*e.Scale),
			Idiom:    "mac",
			Scale:    fmt.Sprintf("%dx", e.Scale),
			Size:     fmt.Sprintf("%dx%d", e.Size, e.Size),
		})
	}
	return Contents{Images: images, Info: Info{Author: Author, Version: 1}}
}

// Encode renders the manifest as indented JSON with a trailing newline.
func (c Contents) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write encodes the manifest and writes it atomically.
func (c Contents) Write(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return paths.AtomicWrite(path, data)
}
