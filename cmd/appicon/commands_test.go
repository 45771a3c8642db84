package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/pipeline"
	"github.com/Mavwarf/appicon/internal/source"
)

// loadTestSource writes a solid white PNG into dir and loads it.
func loadTestSource(t *testing.T, dir string, size int) *source.Image {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	path := filepath.Join(dir, "icon.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("encoding test image: %v", err)
	}
	f.Close()

	src, err := source.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return src
}

func testRunOptions(proj string) (config.Config, pipeline.Options) {
	cfg := config.DefaultConfig()
	cfg.Options.History = false
	popts := pipeline.Options{
		ProjectDir: proj,
		Platforms:  []string{"store"},
		Background: config.DefaultBackground,
		Launcher:   config.DefaultLauncher,
		Round:      true,
		Version:    "test",
	}
	return cfg, popts
}

func TestRunGenerateOutput(t *testing.T) {
	proj := t.TempDir()
	src := loadTestSource(t, proj, 64)
	cfg, popts := testRunOptions(proj)

	var out strings.Builder
	if err := runGenerate(&out, src, cfg, popts, false); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}

	s := out.String()
	if !strings.Contains(s, "Generated 2 files") {
		t.Errorf("missing summary line in output:\n%s", s)
	}
	if !strings.Contains(s, "play_store") {
		t.Errorf("missing per-file line in output:\n%s", s)
	}
	if !strings.Contains(s, "Next steps:") {
		t.Errorf("missing next steps in output:\n%s", s)
	}

	gen := filepath.Join(proj, "assets/app_icons/generated/store")
	if _, err := os.Stat(filepath.Join(gen, "icon_512x512_play_store.png")); err != nil {
		t.Errorf("expected store icon on disk: %v", err)
	}
}

func TestRunGenerateSkipsSecondRun(t *testing.T) {
	proj := t.TempDir()
	src := loadTestSource(t, proj, 64)
	cfg, popts := testRunOptions(proj)

	var first strings.Builder
	if err := runGenerate(&first, src, cfg, popts, false); err != nil {
		t.Fatalf("first runGenerate() error = %v", err)
	}

	var second strings.Builder
	if err := runGenerate(&second, src, cfg, popts, false); err != nil {
		t.Fatalf("second runGenerate() error = %v", err)
	}
	if !strings.Contains(second.String(), "up to date") {
		t.Errorf("second run output = %q, want up-to-date notice", second.String())
	}

	popts.Force = true
	var forced strings.Builder
	if err := runGenerate(&forced, src, cfg, popts, false); err != nil {
		t.Fatalf("forced runGenerate() error = %v", err)
	}
	if !strings.Contains(forced.String(), "Generated 2 files") {
		t.Errorf("forced run output = %q, want regeneration", forced.String())
	}
}
