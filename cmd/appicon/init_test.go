package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mavwarf/appicon/internal/config"
)

func allDefaultSelections() map[string]bool {
	return map[string]bool{
		"ios": true, "android": true, "store": true,
		"web": false, "windows": false, "macos": false,
	}
}

func TestBuildInitConfigDefaults(t *testing.T) {
	cfg := buildInitConfig(allDefaultSelections(),
		config.DefaultSource, config.DefaultBackground, config.DefaultLauncher, true, true)

	if cfg.Options.Source != config.DefaultSource {
		t.Errorf("Source = %q, want %q", cfg.Options.Source, config.DefaultSource)
	}
	if !cfg.Options.History {
		t.Error("History = false, want true")
	}
	// Every selection matches the defaults, so no platform overrides.
	if len(cfg.Platforms) != 0 {
		t.Errorf("Platforms = %v, want none", cfg.Platforms)
	}
}

func TestBuildInitConfigEnablesWeb(t *testing.T) {
	sel := allDefaultSelections()
	sel["web"] = true

	cfg := buildInitConfig(sel, config.DefaultSource, config.DefaultBackground,
		config.DefaultLauncher, true, true)

	pc, ok := cfg.Platforms["web"]
	if !ok || pc.Enabled == nil || !*pc.Enabled {
		t.Errorf("web platform = %+v, want enabled override", pc)
	}
	if _, ok := cfg.Platforms["ios"]; ok {
		t.Error("unexpected ios override when selection matches default")
	}
}

func TestBuildInitConfigAndroidOverrides(t *testing.T) {
	cfg := buildInitConfig(allDefaultSelections(),
		config.DefaultSource, config.DefaultBackground, "ic_brand", false, true)

	pc, ok := cfg.Platforms["android"]
	if !ok {
		t.Fatal("missing android platform entry")
	}
	if pc.Launcher != "ic_brand" {
		t.Errorf("Launcher = %q, want ic_brand", pc.Launcher)
	}
	if pc.Round == nil || *pc.Round {
		t.Errorf("Round = %v, want false override", pc.Round)
	}
}

func TestBuildInitConfigValidates(t *testing.T) {
	cfg := buildInitConfig(allDefaultSelections(),
		config.DefaultSource, config.DefaultBackground, config.DefaultLauncher, true, false)
	if err := config.Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if cfg.Options.History {
		t.Error("History = true, want false")
	}
}

func TestResolveInitPath(t *testing.T) {
	explicit := cliOptions{configPath: "/etc/appicon.json", projectDir: "/proj"}
	if got := resolveInitPath(explicit); got != "/etc/appicon.json" {
		t.Errorf("resolveInitPath explicit = %q, want /etc/appicon.json", got)
	}

	project := cliOptions{projectDir: "/proj"}
	want := filepath.Join("/proj", "appicon.json")
	if got := resolveInitPath(project); got != want {
		t.Errorf("resolveInitPath project = %q, want %q", got, want)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appicon.json")

	sel := allDefaultSelections()
	sel["macos"] = true
	cfg := buildInitConfig(sel, "art/icon.png", "#112233", config.DefaultLauncher, true, true)

	if err := writeConfig(path, cfg); err != nil {
		t.Fatalf("writeConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("config file missing trailing newline")
	}

	loaded, origin, err := config.Load("", dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if origin != path {
		t.Errorf("origin = %q, want %q", origin, path)
	}
	if loaded.Options.Source != "art/icon.png" {
		t.Errorf("Source = %q, want art/icon.png", loaded.Options.Source)
	}
	if loaded.Options.Background != "#112233" {
		t.Errorf("Background = %q, want #112233", loaded.Options.Background)
	}
	pc, ok := loaded.Platforms["macos"]
	if !ok || pc.Enabled == nil || !*pc.Enabled {
		t.Errorf("macos platform = %+v, want enabled override", pc)
	}
}
