package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/Mavwarf/appicon/internal/paths"
	"github.com/Mavwarf/appicon/internal/sizes"
)

// DefaultBackground is the store feature-graphic background color.
const DefaultBackground = "#1976D2"

// DefaultLauncher is the Android launcher icon resource name.
const DefaultLauncher = "ic_launcher"

// DefaultSource is the source image path, relative to the project dir.
const DefaultSource = "assets/app_icons/icon_1024.png"

// Options holds global settings parsed from the "config" key.
type Options struct {
	Source     string `json:"source,omitempty" yaml:"source"`
	Background string `json:"background,omitempty" yaml:"background"`
	History    bool   `json:"history" yaml:"history"`
	LogLevel   string `json:"log_level,omitempty" yaml:"log_level"`
}

// PlatformConfig holds per-platform overrides. A nil Enabled means the
// built-in default (ios/android/store on, the rest off).
type PlatformConfig struct {
	Enabled  *bool  `json:"enabled,omitempty" yaml:"enabled"`
	Launcher string `json:"launcher_name,omitempty" yaml:"launcher_name"`
	Round    *bool  `json:"round,omitempty" yaml:"round"`
}

// Config holds the top-level configuration: global options and per-platform
// overrides.
type Config struct {
	Options   Options                   `json:"config" yaml:"config"`
	Platforms map[string]PlatformConfig `json:"platforms,omitempty" yaml:"platforms"`
}

// DefaultConfig returns the configuration used when no file is found.
// The tool must work with zero config, so every field has a usable default.
func DefaultConfig() Config {
	return Config{
		Options: Options{
			Background: DefaultBackground,
			History:    true,
			LogLevel:   "info",
		},
	}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = DefaultConfig()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Load reads the configuration for a project. It tries, in order:
//  1. explicitPath (if non-empty)
//  2. appicon.json in the project directory
//  3. an "appicon" mapping in the project's pubspec.yaml
//  4. built-in defaults
//
// The returned origin is the path the config came from, or "" for the
// built-in defaults.
func Load(explicitPath, projectDir string) (Config, string, error) {
	if explicitPath != "" {
		cfg, err := readJSON(explicitPath)
		return cfg, explicitPath, err
	}

	jsonPath := filepath.Join(projectDir, paths.ConfigFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		cfg, err := readJSON(jsonPath)
		return cfg, jsonPath, err
	}

	pubspecPath := filepath.Join(projectDir, "pubspec.yaml")
	if _, err := os.Stat(pubspecPath); err == nil {
		cfg, found, err := readPubspec(pubspecPath)
		if err != nil {
			return Config{}, pubspecPath, err
		}
		if found {
			return cfg, pubspecPath, nil
		}
	}

	return DefaultConfig(), "", nil
}

func readJSON(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// readPubspec extracts the "appicon" mapping from a pubspec.yaml. The second
// return value reports whether the mapping was present at all.
func readPubspec(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false, fmt.Errorf("reading pubspec: %w", err)
	}

	var probe struct {
		Appicon map[string]any `yaml:"appicon"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, false, fmt.Errorf("parsing pubspec %s: %w", path, err)
	}
	if probe.Appicon == nil {
		return Config{}, false, nil
	}

	cfg := DefaultConfig()
	wrapper := struct {
		Appicon *Config `yaml:"appicon"`
	}{Appicon: &cfg}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Config{}, false, fmt.Errorf("parsing pubspec %s: %w", path, err)
	}
	return cfg, true, nil
}

var (
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	launcherRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Validate checks field values and platform keys.
func Validate(cfg Config) error {
	if cfg.Options.Background != "" && !hexColorRe.MatchString(cfg.Options.Background) {
		return fmt.Errorf("background %q is not a #RRGGBB color", cfg.Options.Background)
	}
	switch cfg.Options.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", cfg.Options.LogLevel)
	}
	for id, pc := range cfg.Platforms {
		if _, ok := sizes.ByID(id); !ok {
			return fmt.Errorf("unknown platform %q (known: %v)", id, sizes.IDs())
		}
		if pc.Launcher != "" && !launcherRe.MatchString(pc.Launcher) {
			return fmt.Errorf("launcher_name %q is not a valid Android resource name", pc.Launcher)
		}
	}
	return nil
}

// EnabledPlatforms resolves the platform list for a run. A non-empty
// override (from --platforms) wins over the config; otherwise config
// overrides apply on top of the built-in defaults. The result is in
// canonical generation order.
func EnabledPlatforms(cfg Config, override []string) ([]string, error) {
	if len(override) > 0 {
		want := map[string]bool{}
		for _, id := range override {
			if _, ok := sizes.ByID(id); !ok {
				return nil, fmt.Errorf("unknown platform %q (known: %v)", id, sizes.IDs())
			}
			want[id] = true
		}
		var out []string
		for _, id := range sizes.IDs() {
			if want[id] {
				out = append(out, id)
			}
		}
		return out, nil
	}

	defaults := map[string]bool{}
	for _, id := range sizes.DefaultIDs() {
		defaults[id] = true
	}

	var out []string
	for _, id := range sizes.IDs() {
		enabled := defaults[id]
		if pc, ok := cfg.Platforms[id]; ok && pc.Enabled != nil {
			enabled = *pc.Enabled
		}
		if enabled {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no platforms enabled")
	}
	return out, nil
}

// LauncherName returns the Android launcher resource name.
func (c Config) LauncherName() string {
	if pc, ok := c.Platforms["android"]; ok && pc.Launcher != "" {
		return pc.Launcher
	}
	return DefaultLauncher
}

// RoundIcons reports whether Android round launcher copies are written.
func (c Config) RoundIcons() bool {
	if pc, ok := c.Platforms["android"]; ok && pc.Round != nil {
		return *pc.Round
	}
	return true
}

// Background returns the feature-graphic background color.
func (c Config) Background() string {
	if c.Options.Background == "" {
		return DefaultBackground
	}
	return c.Options.Background
}

// SourcePath returns the configured source image path. Relative paths
// are resolved against the project dir by the caller.
func (c Config) SourcePath() string {
	if c.Options.Source == "" {
		return DefaultSource
	}
	return c.Options.Source
}
