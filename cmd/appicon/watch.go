package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/fetch"
	"github.com/Mavwarf/appicon/internal/pipeline"
	"github.com/Mavwarf/appicon/internal/source"
	"github.com/Mavwarf/appicon/internal/watch"
)

func watchCmd(args []string, opts cliOptions) {
	cfg, _, err := config.Load(opts.configPath, opts.projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyLogLevel(cfg.Options.LogLevel, opts.verbose)

	platforms, err := config.EnabledPlatforms(cfg, opts.platforms)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	proj, err := filepath.Abs(opts.projectDir)
	if err != nil {
		proj = opts.projectDir
	}

	raw := sourceArg(args, cfg)
	if fetch.IsURL(raw) {
		fmt.Fprintf(os.Stderr, "Error: watch needs a local source file, not a URL\n")
		os.Exit(1)
	}
	srcPath := raw
	if !filepath.IsAbs(srcPath) {
		srcPath = filepath.Join(proj, srcPath)
	}

	// Force is left off: the digest check is what keeps editor
	// double-saves cheap.
	popts := pipeline.Options{
		ProjectDir: proj,
		Platforms:  platforms,
		Background: cfg.Background(),
		Launcher:   cfg.LauncherName(),
		Round:      cfg.RoundIcons(),
		Version:    version,
	}

	w, err := watch.New(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot enter raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	keys := make(chan byte, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()

	cycle := func() {
		var out strings.Builder
		fmt.Fprintf(&out, "[%s] %s\n", time.Now().Format("15:04:05"), relPath(proj, srcPath))
		src, err := source.Load(srcPath)
		if err != nil {
			fmt.Fprintf(&out, "Error: %v\n", err)
		} else {
			for _, warn := range src.Warnings() {
				fmt.Fprintf(&out, "Warning: %s\n", warn)
			}
			if err := runGenerate(&out, src, cfg, popts, opts.noHistory); err != nil {
				fmt.Fprintf(&out, "Error: %v\n", err)
			}
		}
		out.WriteString("\n")
		// In raw mode \n doesn't include \r, so convert.
		os.Stdout.WriteString(strings.ReplaceAll(out.String(), "\n", "\r\n"))
	}

	header := fmt.Sprintf("appicon watch  —  started %s  —  press x to exit\n\n", time.Now().Format("15:04:05"))
	os.Stdout.WriteString(strings.ReplaceAll(header, "\n", "\r\n"))
	cycle()

	for {
		select {
		case key := <-keys:
			if key == 'x' || key == 'X' || key == 3 { // x, X, or Ctrl+C
				return
			}
		case _, ok := <-w.Changes():
			if !ok {
				return
			}
			cycle()
		}
	}
}
