package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Mavwarf/appicon/internal/sizes"
)

func TestIOSCoversEveryTarget(t *testing.T) {
	platform, ok := sizes.ByID("ios")
	if !ok {
		t.Fatal("ios platform missing")
	}

	c := IOS()
	if len(c.Images) != len(platform.Targets) {
		t.Fatalf("len(Images) = %d, want %d", len(c.Images), len(platform.Targets))
	}
	for i, target := range platform.Targets {
		img := c.Images[i]
		if img.Filename != target.FileName() {
			t.Errorf("Images[%d].Filename = %q, want %q", i, img.Filename, target.FileName())
		}
		if img.Idiom != target.Idiom || img.Scale != target.Scale || img.Size != target.Size {
			t.Errorf("Images[%d] = %+v, want idiom=%s scale=%s size=%s",
				i, img, target.Idiom, target.Scale, target.Size)
		}
	}
}

func TestIOSMarketingEntry(t *testing.T) {
	c := IOS()
	first := c.Images[0]
	if first.Idiom != "ios-marketing" || first.Size != "1024x1024" || first.Scale != "1x" {
		t.Errorf("first entry = %+v, want the 1024 marketing icon", first)
	}
}

func TestIOSIPadProEntry(t *testing.T) {
	for _, img := range IOS().Images {
		if img.Filename == "icon_167x167_ipad-pro-app.png" {
			if img.Size != "83.5x83.5" || img.Scale != "2x" || img.Idiom != "ipad" {
				t.Errorf("ipad pro entry = %+v, want 83.5x83.5 @2x ipad", img)
			}
			return
		}
	}
	t.Error("no entry for the 167px iPad Pro icon")
}

func TestInfoBlock(t *testing.T) {
	for _, c := range []Contents{IOS(), MacOS()} {
		if c.Info.Author != "appicon" {
			t.Errorf("Info.Author = %q, want %q", c.Info.Author, "appicon")
		}
		if c.Info.Version != 1 {
			t.Errorf("Info.Version = %d, want 1", c.Info.Version)
		}
	}
}

func TestMacOSEntries(t *testing.T) {
	c := MacOS()
	if len(c.Images) != 10 {
		t.Fatalf("len(Images) = %d, want 10", len(c.Images))
	}

	// Every referenced file must exist in the macOS target table.
	known := make(map[string]bool)
	platform, _ := sizes.ByID("macos")
	for _, target := range platform.Targets {
		known["app_icon_"+strconv.Itoa(target.Width)+".png"] = true
	}
	for _, img := range c.Images {
		if img.Idiom != "mac" {
			t.Errorf("idiom = %q, want mac", img.Idiom)
		}
		if !known[img.Filename] {
			t.Errorf("entry references %q, which no macOS target produces", img.Filename)
		}
	}

	last := c.Images[len(c.Images)-1]
	if last.Filename != "app_icon_1024.png" || last.Size != "512x512" || last.Scale != "2x" {
		t.Errorf("last entry = %+v, want 512x512 @2x -> app_icon_1024.png", last)
	}
}

func TestEncodeShape(t *testing.T) {
	data, err := IOS().Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	s := string(data)
	if !strings.HasSuffix(s, "}\n") {
		t.Error("encoded manifest does not end with a newline")
	}
	if !strings.Contains(s, "  \"images\"") {
		t.Error("encoded manifest is not two-space indented")
	}

	// Key order inside an image entry is fixed.
	fi := strings.Index(s, "\"filename\"")
	ii := strings.Index(s, "\"idiom\"")
	si := strings.Index(s, "\"scale\"")
	zi := strings.Index(s, "\"size\"")
	if !(fi < ii && ii < si && si < zi) {
		t.Errorf("key order wrong: filename=%d idiom=%d scale=%d size=%d", fi, ii, si, zi)
	}

	var round Contents
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(round.Images) != len(IOS().Images) {
		t.Errorf("round trip lost entries: %d != %d", len(round.Images), len(IOS().Images))
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AppIcon.appiconset", "Contents.json")

	if err := IOS().Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var c Contents
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("written manifest is not valid JSON: %v", err)
	}
	if c.Info.Author != "appicon" {
		t.Errorf("Info.Author = %q, want appicon", c.Info.Author)
	}
}
