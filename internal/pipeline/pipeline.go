// Package pipeline turns one source image into the full set of platform
// icon assets. Platforms render in parallel; every written file is
// reported to the caller as an artifact.
package pipeline

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mavwarf/appicon/internal/layout"
	"github.com/Mavwarf/appicon/internal/manifest"
	"github.com/Mavwarf/appicon/internal/render"
	"github.com/Mavwarf/appicon/internal/sizes"
	"github.com/Mavwarf/appicon/internal/source"
)

// Options selects what a run produces.
type Options struct {
	ProjectDir string
	Platforms  []string
	Background string
	Launcher   string
	Round      bool
	Force      bool
	Version    string
}

// Artifact is one file written (or planned) by the pipeline. Container
// files (manifests, .ico, .icns) carry zero dimensions.
type Artifact struct {
	Platform string
	Path     string
	Width    int
	Height   int
	Bytes    int64
}

// ProgressFunc receives each artifact as soon as it is written.
type ProgressFunc func(Artifact)

// Result summarizes one run.
type Result struct {
	Artifacts []Artifact
	Bytes     int64
	Duration  time.Duration
	Skipped   bool
}

// Run generates all assets for the selected platforms. When the project
// state stamp matches the source and options, the run is skipped unless
// Force is set. On error the result still carries the artifacts written
// before the failure.
func Run(src *source.Image, opts Options, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	if len(opts.Platforms) == 0 {
		return nil, fmt.Errorf("no platforms selected")
	}

	p := layout.New(opts.ProjectDir)
	st := newStamp(src.SHA256, opts)
	if !opts.Force && upToDate(p.StateFile(), st) {
		log.Debug().Str("project", opts.ProjectDir).Msg("outputs up to date")
		return &Result{Skipped: true, Duration: time.Since(start)}, nil
	}

	plats := make([]sizes.Platform, 0, len(opts.Platforms))
	for _, id := range opts.Platforms {
		plat, ok := sizes.ByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown platform %q", id)
		}
		plats = append(plats, plat)
	}

	g := &generator{src: src.Img, opts: opts, paths: p, progress: progress}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for _, plat := range plats {
		wg.Add(1)
		go func(plat sizes.Platform) {
			defer wg.Done()
			log.Debug().Str("platform", plat.ID).Msg("generating")
			if err := g.platform(plat); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", plat.ID, err))
				mu.Unlock()
			}
		}(plat)
	}
	wg.Wait()

	res := &Result{Artifacts: g.artifacts, Duration: time.Since(start)}
	for _, a := range g.artifacts {
		res.Bytes += a.Bytes
	}

	if len(errs) > 0 {
		return res, errs[0]
	}

	writeState(p.StateFile(), st)
	return res, nil
}

// Plan returns the artifacts a run with these options would write,
// without rendering anything.
func Plan(opts Options) ([]Artifact, error) {
	p := layout.New(opts.ProjectDir)

	var out []Artifact
	add := func(platform, path string, w, h int) {
		out = append(out, Artifact{Platform: platform, Path: path, Width: w, Height: h})
	}

	for _, id := range opts.Platforms {
		plat, ok := sizes.ByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown platform %q", id)
		}
		switch plat.ID {
		case "ios":
			for _, t := range plat.Targets {
				add(plat.ID, p.GeneratedFile(plat.ID, t), t.Width, t.Height)
				add(plat.ID, p.IOSIconFile(t), t.Width, t.Height)
			}
			add(plat.ID, p.IOSManifestFile(), 0, 0)
		case "android":
			for _, t := range plat.Targets {
				add(plat.ID, p.GeneratedFile(plat.ID, t), t.Width, t.Height)
				add(plat.ID, p.LauncherFile(t.Name, opts.Launcher), t.Width, t.Height)
				if opts.Round {
					add(plat.ID, p.RoundLauncherFile(t.Name, opts.Launcher), t.Width, t.Height)
				}
			}
		case "store":
			for _, t := range plat.Targets {
				add(plat.ID, p.GeneratedFile(plat.ID, t), t.Width, t.Height)
			}
		case "web":
			for _, t := range plat.Targets {
				add(plat.ID, p.GeneratedFile(plat.ID, t), t.Width, t.Height)
				if dst := p.WebFile(t); dst != "" {
					add(plat.ID, dst, t.Width, t.Height)
				}
			}
		case "windows":
			for _, t := range plat.Targets {
				add(plat.ID, p.GeneratedFile(plat.ID, t), t.Width, t.Height)
			}
			add(plat.ID, p.ICOFile(), 0, 0)
		case "macos":
			for _, t := range plat.Targets {
				add(plat.ID, p.GeneratedFile(plat.ID, t), t.Width, t.Height)
				add(plat.ID, p.MacIconFile(t), t.Width, t.Height)
			}
			add(plat.ID, p.MacManifestFile(), 0, 0)
			add(plat.ID, p.ICNSFile(), 0, 0)
		}
	}
	return out, nil
}

// generator holds per-run state shared by the platform goroutines.
type generator struct {
	src      image.Image
	opts     Options
	paths    layout.Paths
	progress ProgressFunc

	mu        sync.Mutex
	artifacts []Artifact
}

func (g *generator) platform(plat sizes.Platform) error {
	switch plat.ID {
	case "ios":
		return g.ios(plat)
	case "android":
		return g.android(plat)
	case "store":
		return g.store(plat)
	case "web":
		return g.web(plat)
	case "windows":
		return g.windows(plat)
	case "macos":
		return g.macos(plat)
	default:
		return fmt.Errorf("unknown platform %q", plat.ID)
	}
}

// emit records a written file and reports it to the progress callback.
func (g *generator) emit(platform, path string, w, h int) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	a := Artifact{Platform: platform, Path: path, Width: w, Height: h, Bytes: size}

	g.mu.Lock()
	g.artifacts = append(g.artifacts, a)
	if g.progress != nil {
		g.progress(a)
	}
	g.mu.Unlock()
}

func (g *generator) writePNG(img image.Image, platform, path string, w, h int) error {
	if err := render.SavePNG(img, path); err != nil {
		return err
	}
	g.emit(platform, path, w, h)
	return nil
}

func (g *generator) copy(from, to, platform string, w, h int) error {
	if err := layout.CopyFile(from, to); err != nil {
		return err
	}
	g.emit(platform, to, w, h)
	return nil
}

func (g *generator) ios(plat sizes.Platform) error {
	for _, t := range plat.Targets {
		img := render.Resize(g.src, t.Width, t.Height)
		gen := g.paths.GeneratedFile(plat.ID, t)
		if err := g.writePNG(img, plat.ID, gen, t.Width, t.Height); err != nil {
			return err
		}
		if err := g.copy(gen, g.paths.IOSIconFile(t), plat.ID, t.Width, t.Height); err != nil {
			return err
		}
	}

	mf := g.paths.IOSManifestFile()
	if err := manifest.IOS().Write(mf); err != nil {
		return err
	}
	g.emit(plat.ID, mf, 0, 0)
	return nil
}

func (g *generator) android(plat sizes.Platform) error {
	for _, t := range plat.Targets {
		img := render.Resize(g.src, t.Width, t.Height)
		gen := g.paths.GeneratedFile(plat.ID, t)
		if err := g.writePNG(img, plat.ID, gen, t.Width, t.Height); err != nil {
			return err
		}
		if err := g.copy(gen, g.paths.LauncherFile(t.Name, g.opts.Launcher), plat.ID, t.Width, t.Height); err != nil {
			return err
		}
		if g.opts.Round {
			if err := g.copy(gen, g.paths.RoundLauncherFile(t.Name, g.opts.Launcher), plat.ID, t.Width, t.Height); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) store(plat sizes.Platform) error {
	for _, t := range plat.Targets {
		var img image.Image
		if sizes.IsFeatureGraphic(t) {
			img = render.FeatureGraphic(g.src, g.opts.Background)
		} else {
			img = render.Resize(g.src, t.Width, t.Height)
		}
		if err := g.writePNG(img, plat.ID, g.paths.GeneratedFile(plat.ID, t), t.Width, t.Height); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) web(plat sizes.Platform) error {
	for _, t := range plat.Targets {
		img := render.Resize(g.src, t.Width, t.Height)
		gen := g.paths.GeneratedFile(plat.ID, t)
		if err := g.writePNG(img, plat.ID, gen, t.Width, t.Height); err != nil {
			return err
		}
		if dst := g.paths.WebFile(t); dst != "" {
			if err := g.copy(gen, dst, plat.ID, t.Width, t.Height); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) windows(plat sizes.Platform) error {
	frames := make([]int, len(plat.Targets))
	for i, t := range plat.Targets {
		frames[i] = t.Width
		img := render.Resize(g.src, t.Width, t.Height)
		if err := g.writePNG(img, plat.ID, g.paths.GeneratedFile(plat.ID, t), t.Width, t.Height); err != nil {
			return err
		}
	}

	icoPath := g.paths.ICOFile()
	if err := render.SaveICO(g.src, icoPath, frames); err != nil {
		return err
	}
	g.emit(plat.ID, icoPath, 0, 0)
	return nil
}

func (g *generator) macos(plat sizes.Platform) error {
	for _, t := range plat.Targets {
		img := render.Resize(g.src, t.Width, t.Height)
		gen := g.paths.GeneratedFile(plat.ID, t)
		if err := g.writePNG(img, plat.ID, gen, t.Width, t.Height); err != nil {
			return err
		}
		if err := g.copy(gen, g.paths.MacIconFile(t), plat.ID, t.Width, t.Height); err != nil {
			return err
		}
	}

	mf := g.paths.MacManifestFile()
	if err := manifest.MacOS().Write(mf); err != nil {
		return err
	}
	g.emit(plat.ID, mf, 0, 0)

	icnsPath := g.paths.ICNSFile()
	if err := render.SaveICNS(g.src, icnsPath); err != nil {
		return err
	}
	g.emit(plat.ID, icnsPath, 0, 0)
	return nil
}
