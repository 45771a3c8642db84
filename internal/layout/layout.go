// Package layout maps icon targets onto a Flutter project tree: the
// generated asset mirror plus the per-platform resource directories.
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mavwarf/appicon/internal/paths"
	"github.com/Mavwarf/appicon/internal/sizes"
)

// Project directory layout, relative to the project root.
const (
	GeneratedRoot      = "assets/app_icons/generated"
	AppIconSetDir      = "ios/Runner/Assets.xcassets/AppIcon.appiconset"
	MacIconSetDir      = "macos/Runner/Assets.xcassets/AppIcon.appiconset"
	AndroidResDir      = "android/app/src/main/res"
	WebDir             = "web"
	WebIconsDir        = "web/icons"
	WindowsResourceDir = "windows/runner/resources"

	ICOName  = "app_icon.ico"
	ICNSName = "app_icon.icns"
)

// webFiles maps web target names to their conventional paths inside the
// Flutter web template.
var webFiles = map[string]string{
	"favicon":          "favicon.png",
	"pwa-192":          "icons/Icon-192.png",
	"pwa-512":          "icons/Icon-512.png",
	"pwa-maskable-192": "icons/Icon-maskable-192.png",
	"pwa-maskable-512": "icons/Icon-maskable-512.png",
}

// Paths resolves output locations for one project.
type Paths struct {
	ProjectDir string
}

// New returns a Paths rooted at projectDir.
func New(projectDir string) Paths {
	return Paths{ProjectDir: projectDir}
}

func (p Paths) join(elem ...string) string {
	return filepath.Join(append([]string{p.ProjectDir}, elem...)...)
}

// GeneratedName is the file name a target gets inside the generated
// mirror. The store feature graphic keeps its own name; everything else
// uses the icon_WxH_name pattern.
func GeneratedName(t sizes.Target) string {
	if sizes.IsFeatureGraphic(t) {
		return fmt.Sprintf("feature_graphic_%dx%d.png", t.Width, t.Height)
	}
	return t.FileName()
}

// GeneratedDir is the generated-asset directory for one platform.
func (p Paths) GeneratedDir(platformID string) string {
	return p.join(GeneratedRoot, platformID)
}

// GeneratedFile is the generated-asset path for one target.
func (p Paths) GeneratedFile(platformID string, t sizes.Target) string {
	return p.join(GeneratedRoot, platformID, GeneratedName(t))
}

// IOSIconFile is the path of a target inside the Xcode asset catalog.
func (p Paths) IOSIconFile(t sizes.Target) string {
	return p.join(AppIconSetDir, t.FileName())
}

// IOSManifestFile is the asset catalog's Contents.json path.
func (p Paths) IOSManifestFile() string {
	return p.join(AppIconSetDir, "Contents.json")
}

// MipmapDir is the Android resource directory for one density bucket.
func (p Paths) MipmapDir(density string) string {
	return p.join(AndroidResDir, "mipmap-"+density)
}

// LauncherFile is the Android launcher icon path for one density.
func (p Paths) LauncherFile(density, launcher string) string {
	return filepath.Join(p.MipmapDir(density), launcher+".png")
}

// RoundLauncherFile is the round launcher variant path for one density.
func (p Paths) RoundLauncherFile(density, launcher string) string {
	return filepath.Join(p.MipmapDir(density), launcher+"_round.png")
}

// WebFile is the project path for a web target, or "" when the target
// has no web-template location.
func (p Paths) WebFile(t sizes.Target) string {
	rel, ok := webFiles[t.Name]
	if !ok {
		return ""
	}
	return p.join(WebDir, rel)
}

// MacIconFile is the path of a macOS target inside the asset catalog.
func (p Paths) MacIconFile(t sizes.Target) string {
	return p.join(MacIconSetDir, MacIconName(t))
}

// MacManifestFile is the macOS asset catalog's Contents.json path.
func (p Paths) MacManifestFile() string {
	return p.join(MacIconSetDir, "Contents.json")
}

// MacIconName is the catalog file name for a macOS target.
func MacIconName(t sizes.Target) string {
	return fmt.Sprintf("app_icon_%d.png", t.Width)
}

// ICOFile is the Windows runner icon path.
func (p Paths) ICOFile() string {
	return p.join(WindowsResourceDir, ICOName)
}

// ICNSFile is where the macOS icon container lands in the generated
// mirror.
func (p Paths) ICNSFile() string {
	return p.join(GeneratedRoot, "macos", ICNSName)
}

// StateFile is the generation stamp path. It lives inside the generated
// mirror so removing the mirror also resets the stamp.
func (p Paths) StateFile() string {
	return p.join(GeneratedRoot, paths.StateFileName)
}

// ConfigFile is the per-project config path.
func (p Paths) ConfigFile() string {
	return p.join(paths.ConfigFileName)
}

// PubspecFile is the project's pubspec path.
func (p Paths) PubspecFile() string {
	return p.join("pubspec.yaml")
}

// CopyFile duplicates src at dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return paths.AtomicWrite(dst, data)
}
