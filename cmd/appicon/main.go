package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// cliOptions holds the global flags shared by every command.
type cliOptions struct {
	configPath string
	projectDir string
	platforms  []string
	force      bool
	dryRun     bool
	verbose    bool
	noHistory  bool
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC822})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	args := os.Args[1:]
	opts := cliOptions{projectDir: "."}

	// Parse flags
	filtered := args[:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				opts.configPath = args[i+1]
				i++
			} else {
				fmt.Fprintf(os.Stderr, "Error: --config requires a file path\n")
				os.Exit(1)
			}
		case "--project", "-p":
			if i+1 < len(args) {
				opts.projectDir = args[i+1]
				i++
			} else {
				fmt.Fprintf(os.Stderr, "Error: --project requires a directory\n")
				os.Exit(1)
			}
		case "--platforms":
			if i+1 < len(args) {
				opts.platforms = splitPlatforms(args[i+1])
				i++
			} else {
				fmt.Fprintf(os.Stderr, "Error: --platforms requires a comma-separated list\n")
				os.Exit(1)
			}
		case "--force", "-f":
			opts.force = true
		case "--dry-run", "-n":
			opts.dryRun = true
		case "--verbose", "-v":
			opts.verbose = true
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		case "--no-history":
			opts.noHistory = true
		default:
			filtered = append(filtered, args[i])
		}
	}

	// Bare "appicon" generates with config defaults.
	if len(filtered) < 1 {
		generateCmd(nil, opts)
		return
	}

	switch filtered[0] {
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	case "generate":
		generateCmd(filtered[1:], opts)
	case "watch":
		watchCmd(filtered[1:], opts)
	case "clean":
		cleanCmd(opts)
	case "list":
		listCmd()
	case "manifest":
		manifestCmd(filtered[1:])
	case "placeholder":
		placeholderCmd(filtered[1:], opts)
	case "init":
		initCmd(filtered[1:], opts)
	case "config":
		configCmd(filtered[1:], opts)
	case "history":
		historyCmd(filtered[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", filtered[0])
		fmt.Fprintf(os.Stderr, "Run 'appicon help' for usage.\n")
		os.Exit(1)
	}
}

// applyLogLevel sets the global log level from the config, unless
// --verbose already forced debug.
func applyLogLevel(level string, verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// splitPlatforms parses a comma-separated platform list.
func splitPlatforms(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// formatDuration returns a compact duration string (e.g. "480ms", "2m15s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	return d.String()
}

// fmtBytes formats a byte count with a unit suffix (e.g. "1.5 KB").
func fmtBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func printVersion() {
	fmt.Printf("appicon %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("appicon %s - Generate app icon sets from a single source image\n", version)
	fmt.Println(`
Usage:
  appicon [options] generate [source]
  appicon [options] watch [source]

Options:
  --config, -c <path>    Path to appicon.json
  --project, -p <dir>    Flutter project directory (default: .)
  --platforms <list>     Comma-separated platforms (e.g. ios,android,web)
  --force, -f            Regenerate even when outputs are up to date
  --dry-run, -n          Print what would be written without writing
  --verbose, -v          Enable debug logging
  --no-history           Skip recording this run

Commands:
  generate [source]      Generate icon sets (default command)
  watch [source]         Regenerate whenever the source changes
  clean                  Remove the files recorded by the last run
  list                   List platforms and their targets
  manifest [ios|macos]   Print a Contents.json to stdout
  placeholder [path]     Write a 1024x1024 starter icon
  init [--defaults]      Create an appicon.json config
  config validate        Check config resolution and values
  history [N]            Show recent generation runs
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Config resolution:
  1. --config <path>           (explicit)
  2. <project>/appicon.json    (project config)
  3. <project>/pubspec.yaml    ("appicon:" mapping)
  4. built-in defaults

Examples:
  appicon                              Generate with config defaults
  appicon generate art/icon.png        Generate from a specific source
  appicon --platforms web,macos -f     Force just the web and macOS sets
  appicon watch                        Regenerate on every source change
  appicon history summary 7            Summarize the last week

Created by Thomas Häuser
https://mavwarf.netlify.app/
https://github.com/Mavwarf/appicon`)
}
