package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/fetch"
	"github.com/Mavwarf/appicon/internal/history"
	"github.com/Mavwarf/appicon/internal/layout"
	"github.com/Mavwarf/appicon/internal/manifest"
	"github.com/Mavwarf/appicon/internal/pipeline"
	"github.com/Mavwarf/appicon/internal/placeholder"
	"github.com/Mavwarf/appicon/internal/render"
	"github.com/Mavwarf/appicon/internal/sizes"
	"github.com/Mavwarf/appicon/internal/source"
)

func generateCmd(args []string, opts cliOptions) {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one source path\n")
		fmt.Fprintf(os.Stderr, "Run 'appicon help' for usage.\n")
		os.Exit(1)
	}

	cfg, origin, err := config.Load(opts.configPath, opts.projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyLogLevel(cfg.Options.LogLevel, opts.verbose)
	if origin != "" {
		log.Debug().Str("config", origin).Msg("config loaded")
	}

	platforms, err := config.EnabledPlatforms(cfg, opts.platforms)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	proj, err := filepath.Abs(opts.projectDir)
	if err != nil {
		proj = opts.projectDir
	}

	popts := pipeline.Options{
		ProjectDir: proj,
		Platforms:  platforms,
		Background: cfg.Background(),
		Launcher:   cfg.LauncherName(),
		Round:      cfg.RoundIcons(),
		Force:      opts.force,
		Version:    version,
	}

	// Dry runs never touch the source image or the filesystem.
	if opts.dryRun {
		plan, err := pipeline.Plan(popts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Would write %d files:\n", len(plan))
		for _, a := range plan {
			fmt.Printf("  %s\n", relPath(proj, a.Path))
		}
		return
	}

	srcPath := resolveSource(sourceArg(args, cfg), proj)
	src, err := source.Load(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, warn := range src.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warn)
	}

	if err := runGenerate(os.Stdout, src, cfg, popts, opts.noHistory); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sourceArg picks the raw source reference: an explicit argument wins
// over the config.
func sourceArg(args []string, cfg config.Config) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.SourcePath()
}

// resolveSource turns a source reference into a local file path. URLs are
// downloaded into the cache; relative paths are taken from the project dir.
func resolveSource(raw, projectDir string) string {
	if fetch.IsURL(raw) {
		local, err := fetch.Download(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Debug().Str("url", raw).Str("path", local).Msg("downloaded source")
		return local
	}
	if !filepath.IsAbs(raw) {
		return filepath.Join(projectDir, raw)
	}
	return raw
}

// runGenerate executes one pipeline run, prints per-file progress and a
// summary to w, and records the outcome in history. Watch mode reuses it
// with a buffered writer.
func runGenerate(w io.Writer, src *source.Image, cfg config.Config, popts pipeline.Options, noHistory bool) error {
	progress := func(a pipeline.Artifact) {
		rel := relPath(popts.ProjectDir, a.Path)
		if a.Width > 0 {
			fmt.Fprintf(w, "  %4dx%-4d %s\n", a.Width, a.Height, rel)
		} else {
			fmt.Fprintf(w, "  %9s %s\n", "", rel)
		}
	}

	res, runErr := pipeline.Run(src, popts, progress)

	if cfg.Options.History && !noHistory {
		recordRun(src, popts, res, runErr)
	}

	if runErr != nil {
		return runErr
	}
	if res.Skipped {
		fmt.Fprintln(w, "Outputs up to date; use --force to regenerate.")
		return nil
	}

	fmt.Fprintf(w, "Generated %d files (%s) in %s\n",
		len(res.Artifacts), fmtBytes(res.Bytes), formatDuration(res.Duration))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  flutter clean")
	fmt.Fprintln(w, "  flutter pub get")
	return nil
}

// recordRun logs one run to the history database. Failures only warn:
// history must never break generation.
func recordRun(src *source.Image, popts pipeline.Options, res *pipeline.Result, runErr error) {
	store, err := history.OpenDefault()
	if err != nil {
		log.Warn().Err(err).Msg("history: open")
		return
	}
	defer store.Close()

	run := history.Run{
		Project:   popts.ProjectDir,
		Source:    src.Path,
		SourceSHA: src.SHA256,
		Platforms: popts.Platforms,
		Status:    history.StatusOK,
	}
	var artifacts []history.Artifact
	if res != nil {
		run.Files = len(res.Artifacts)
		run.Bytes = res.Bytes
		run.Duration = res.Duration
		if res.Skipped {
			run.Status = history.StatusSkipped
		}
		artifacts = make([]history.Artifact, len(res.Artifacts))
		for i, a := range res.Artifacts {
			artifacts[i] = history.Artifact{
				Platform: a.Platform,
				Path:     a.Path,
				Width:    a.Width,
				Height:   a.Height,
				Bytes:    a.Bytes,
			}
		}
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}

	if _, err := store.LogRun(run, artifacts); err != nil {
		log.Warn().Err(err).Msg("history: log run")
	}
}

// relPath shortens an artifact path to be project-relative for display.
func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func listCmd() {
	for _, plat := range sizes.All() {
		fmt.Printf("%s (%s):\n", plat.Title, plat.ID)
		for _, t := range plat.Targets {
			fmt.Printf("  %-28s %dx%d\n", t.Name, t.Width, t.Height)
		}
	}
}

func manifestCmd(args []string) {
	kind := "ios"
	if len(args) > 0 {
		kind = args[0]
	}

	var c manifest.Contents
	switch kind {
	case "ios":
		c = manifest.IOS()
	case "macos":
		c = manifest.MacOS()
	default:
		fmt.Fprintf(os.Stderr, "Error: manifest kind must be ios or macos\n")
		os.Exit(1)
	}

	data, err := c.Encode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

func cleanCmd(opts cliOptions) {
	proj, err := filepath.Abs(opts.projectDir)
	if err != nil {
		proj = opts.projectDir
	}

	// Project-side files (asset catalogs, mipmaps, web icons) are only
	// removed when a recorded run names them.
	removed := 0
	if store, err := history.OpenDefault(); err == nil {
		artifacts, err := store.LastArtifacts(proj)
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, a := range artifacts {
			if err := os.Remove(a.Path); err == nil {
				removed++
			} else if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	} else {
		log.Warn().Err(err).Msg("history: open")
	}

	// The generated mirror (including the state stamp) is always ours to drop.
	if err := os.RemoveAll(filepath.Join(proj, layout.GeneratedRoot)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Removed %d recorded files; cleared %s\n", removed, layout.GeneratedRoot)
}

func configCmd(args []string, opts cliOptions) {
	if len(args) == 0 || args[0] == "validate" {
		configValidate(opts)
		return
	}
	fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
	os.Exit(1)
}

func configValidate(opts cliOptions) {
	cfg, origin, err := config.Load(opts.configPath, opts.projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	platforms, err := config.EnabledPlatforms(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if origin == "" {
		origin = "built-in defaults"
	}
	fmt.Printf("Config OK: %s\n", origin)
	fmt.Printf("Source:     %s\n", cfg.SourcePath())
	fmt.Printf("Background: %s\n", cfg.Background())
	fmt.Printf("Platforms:  %s\n", strings.Join(platforms, ", "))
	fmt.Printf("History:    %v\n", cfg.Options.History)
}

func placeholderCmd(args []string, opts cliOptions) {
	cfg, _, err := config.Load(opts.configPath, opts.projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := cfg.SourcePath()
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.projectDir, path)
	}

	if _, err := os.Stat(path); err == nil && !opts.force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		os.Exit(1)
	}

	img := placeholder.Generate(source.RequiredSize, cfg.Background())
	if err := render.SavePNG(img, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote placeholder icon to %s\n", path)
	fmt.Println("Replace it with your real 1024x1024 icon, then run: appicon")
}
