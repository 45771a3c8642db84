package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/paths"
	"github.com/Mavwarf/appicon/internal/sizes"
)

func initCmd(args []string, opts cliOptions) {
	for _, a := range args {
		if a == "--defaults" {
			initDefaults(opts)
			return
		}
	}
	initInteractive(opts)
}

// initDefaults writes the built-in default config to a file without prompts.
func initDefaults(opts cliOptions) {
	path := resolveInitPath(opts)

	cfg := config.DefaultConfig()
	cfg.Options.Source = config.DefaultSource

	if err := writeConfig(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", path)
	fmt.Println("Edit it to change the source image, background, and platforms.")
}

// initInteractive walks the user through an interactive config setup.
func initInteractive(opts cliOptions) {
	scanner := bufio.NewScanner(os.Stdin)
	path := resolveInitPath(opts)

	// Check for existing config.
	if _, err := os.Stat(path); err == nil {
		if !promptYN(scanner, fmt.Sprintf("%s already exists. Overwrite?", path), false) {
			fmt.Println("Aborted.")
			return
		}
	}

	fmt.Println("appicon init - interactive config generator")
	fmt.Println()

	// --- Platforms ---
	fmt.Println("Which platforms do you want to generate?")
	fmt.Println()

	defaults := map[string]bool{}
	for _, id := range sizes.DefaultIDs() {
		defaults[id] = true
	}
	enabled := map[string]bool{}
	for _, plat := range sizes.All() {
		enabled[plat.ID] = promptYN(scanner, fmt.Sprintf("  %s?", plat.Title), defaults[plat.ID])
	}
	fmt.Println()

	// --- Options ---
	fmt.Println("Options:")
	srcPath := promptLineDefault(scanner, "  Source image", config.DefaultSource)
	background := promptLineDefault(scanner, "  Feature graphic background", config.DefaultBackground)
	launcher := promptLineDefault(scanner, "  Android launcher name", config.DefaultLauncher)
	round := promptYN(scanner, "  Round Android launcher copies?", true)
	enableHistory := promptYN(scanner, "  Record run history?", true)
	fmt.Println()

	cfg := buildInitConfig(enabled, srcPath, background, launcher, round, enableHistory)
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeConfig(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// --- Summary ---
	fmt.Printf("Config written to %s\n", path)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  appicon placeholder      Write a starter icon to the source path")
	fmt.Println("  appicon config validate  Check for errors")
	fmt.Println("  appicon                  Generate the icon sets")
}

// buildInitConfig constructs a Config from the user's selections. Platform
// entries are only written where they differ from the built-in defaults.
func buildInitConfig(enabled map[string]bool, srcPath, background, launcher string,
	round, enableHistory bool) config.Config {

	cfg := config.DefaultConfig()
	cfg.Options.Source = srcPath
	cfg.Options.Background = background
	cfg.Options.History = enableHistory

	defaults := map[string]bool{}
	for _, id := range sizes.DefaultIDs() {
		defaults[id] = true
	}

	platforms := map[string]config.PlatformConfig{}
	for id, on := range enabled {
		var pc config.PlatformConfig
		changed := false
		if on != defaults[id] {
			v := on
			pc.Enabled = &v
			changed = true
		}
		if id == "android" {
			if launcher != config.DefaultLauncher {
				pc.Launcher = launcher
				changed = true
			}
			if !round {
				v := false
				pc.Round = &v
				changed = true
			}
		}
		if changed {
			platforms[id] = pc
		}
	}
	if len(platforms) > 0 {
		cfg.Platforms = platforms
	}
	return cfg
}

// resolveInitPath determines where to write the config file.
func resolveInitPath(opts cliOptions) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return filepath.Join(opts.projectDir, paths.ConfigFileName)
}

// writeConfig marshals a Config to JSON and writes it atomically.
func writeConfig(path string, cfg config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')
	return paths.AtomicWrite(path, data)
}

// promptYN asks a yes/no question with a default. Returns true for yes.
func promptYN(scanner *bufio.Scanner, question string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Printf("%s %s ", question, hint)
	if !scanner.Scan() {
		return defaultYes
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

// promptLineDefault asks a question with a default value shown in brackets.
func promptLineDefault(scanner *bufio.Scanner, question, defaultVal string) string {
	fmt.Printf("%s [%s]: ", question, defaultVal)
	if !scanner.Scan() {
		return defaultVal
	}
	answer := strings.TrimSpace(scanner.Text())
	if answer == "" {
		return defaultVal
	}
	return answer
}
