// Package sizes defines the fixed icon target tables for every supported
// platform. The tables drive both generation order and the Xcode manifests.
package sizes

import "fmt"

// Target is a single icon output: pixel dimensions plus the label used in
// generated filenames. Idiom, Size, and Scale are only set for targets that
// appear in an Xcode asset-catalog manifest; Size is the point size ("60x60")
// and Scale the device scale ("3x").
type Target struct {
	Width  int
	Height int
	Name   string
	Idiom  string
	Size   string
	Scale  string
}

// FileName returns the reference-copy filename for the target,
// e.g. "icon_180x180_iphone-app-60pt@3x.png".
func (t Target) FileName() string {
	return fmt.Sprintf("icon_%dx%d_%s.png", t.Width, t.Height, t.Name)
}

// Platform groups the targets for one output platform.
// Targets are listed in generation order.
type Platform struct {
	ID      string
	Title   string
	Targets []Target
}

var iosPlatform = Platform{
	ID:    "ios",
	Title: "iOS",
	Targets: []Target{
		{Width: 1024, Height: 1024, Name: "ios-marketing", Idiom: "ios-marketing", Size: "1024x1024", Scale: "1x"},
		{Width: 180, Height: 180, Name: "iphone-app-60pt@3x", Idiom: "iphone", Size: "60x60", Scale: "3x"},
		{Width: 167, Height: 167, Name: "ipad-pro-app", Idiom: "ipad", Size: "83.5x83.5", Scale: "2x"},
		{Width: 152, Height: 152, Name: "ipad-app-76pt@2x", Idiom: "ipad", Size: "76x76", Scale: "2x"},
		{Width: 120, Height: 120, Name: "iphone-app-60pt@2x", Idiom: "iphone", Size: "60x60", Scale: "2x"},
		{Width: 87, Height: 87, Name: "iphone-settings-29pt@3x", Idiom: "iphone", Size: "29x29", Scale: "3x"},
		{Width: 80, Height: 80, Name: "iphone-spotlight-40pt@2x", Idiom: "iphone", Size: "40x40", Scale: "2x"},
		{Width: 76, Height: 76, Name: "ipad-app-76pt@1x", Idiom: "ipad", Size: "76x76", Scale: "1x"},
		{Width: 58, Height: 58, Name: "iphone-settings-29pt@2x", Idiom: "iphone", Size: "29x29", Scale: "2x"},
		{Width: 40, Height: 40, Name: "iphone-spotlight-40pt@1x", Idiom: "iphone", Size: "40x40", Scale: "1x"},
		{Width: 29, Height: 29, Name: "iphone-settings-29pt@1x", Idiom: "iphone", Size: "29x29", Scale: "1x"},
		{Width: 20, Height: 20, Name: "iphone-notification-20pt@1x", Idiom: "iphone", Size: "20x20", Scale: "1x"},
	},
}

var androidPlatform = Platform{
	ID:    "android",
	Title: "Android",
	Targets: []Target{
		{Width: 192, Height: 192, Name: "xxxhdpi"},
		{Width: 144, Height: 144, Name: "xxhdpi"},
		{Width: 96, Height: 96, Name: "xhdpi"},
		{Width: 72, Height: 72, Name: "hdpi"},
		{Width: 48, Height: 48, Name: "mdpi"},
	},
}

var storePlatform = Platform{
	ID:    "store",
	Title: "Store",
	Targets: []Target{
		{Width: 512, Height: 512, Name: "play_store"},
		{Width: 1024, Height: 500, Name: "play_store_feature"},
	},
}

var webPlatform = Platform{
	ID:    "web",
	Title: "Web",
	Targets: []Target{
		{Width: 16, Height: 16, Name: "favicon"},
		{Width: 192, Height: 192, Name: "pwa-192"},
		{Width: 512, Height: 512, Name: "pwa-512"},
		{Width: 192, Height: 192, Name: "pwa-maskable-192"},
		{Width: 512, Height: 512, Name: "pwa-maskable-512"},
	},
}

// Windows targets are the frames packed into the single app_icon.ico.
var windowsPlatform = Platform{
	ID:    "windows",
	Title: "Windows",
	Targets: []Target{
		{Width: 16, Height: 16, Name: "ico-16"},
		{Width: 32, Height: 32, Name: "ico-32"},
		{Width: 48, Height: 48, Name: "ico-48"},
		{Width: 64, Height: 64, Name: "ico-64"},
		{Width: 128, Height: 128, Name: "ico-128"},
		{Width: 256, Height: 256, Name: "ico-256"},
	},
}

var macPlatform = Platform{
	ID:    "macos",
	Title: "macOS",
	Targets: []Target{
		{Width: 1024, Height: 1024, Name: "app-1024"},
		{Width: 512, Height: 512, Name: "app-512"},
		{Width: 256, Height: 256, Name: "app-256"},
		{Width: 128, Height: 128, Name: "app-128"},
		{Width: 64, Height: 64, Name: "app-64"},
		{Width: 32, Height: 32, Name: "app-32"},
		{Width: 16, Height: 16, Name: "app-16"},
	},
}

var platforms = []Platform{
	iosPlatform,
	androidPlatform,
	storePlatform,
	webPlatform,
	windowsPlatform,
	macPlatform,
}

// All returns every supported platform in canonical order.
func All() []Platform {
	return platforms
}

// ByID looks up a platform by its ID.
func ByID(id string) (Platform, bool) {
	for _, p := range platforms {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}

// IDs returns the platform IDs in canonical order.
func IDs() []string {
	ids := make([]string, len(platforms))
	for i, p := range platforms {
		ids[i] = p.ID
	}
	return ids
}

// DefaultIDs returns the platforms enabled when no configuration says
// otherwise.
func DefaultIDs() []string {
	return []string{"ios", "android", "store"}
}

// IsFeatureGraphic reports whether a target is the landscape store banner,
// which is composed rather than plain-resized.
func IsFeatureGraphic(t Target) bool {
	return t.Width == 1024 && t.Height == 500
}
