package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Mavwarf/appicon/internal/history"
)

func historyCmd(args []string) {
	if len(args) > 0 {
		switch args[0] {
		case "summary":
			historySummary(args[1:])
			return
		case "clear":
			historyClear()
			return
		case "clean":
			historyClean(args[1:])
			return
		case "export":
			historyExport(args[1:])
			return
		}
	}

	count := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: count must be a positive integer\n")
			os.Exit(1)
		}
		count = n
	}

	store, err := history.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.Runs(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}
	if len(runs) > count {
		runs = runs[len(runs)-count:]
	}

	var out strings.Builder
	for _, r := range runs {
		writeRunLine(&out, r)
	}
	fmt.Print(out.String())
}

// writeRunLine renders one run as a compact line, with the status colored.
func writeRunLine(w *strings.Builder, r history.Run) {
	statusColor := green
	switch r.Status {
	case history.StatusFailed:
		statusColor = yellow
	case history.StatusSkipped:
		statusColor = dim
	}
	colored := statusColor(r.Status)

	fmt.Fprintf(w, "%s  %s %s  %s  %s  %s\n",
		r.Time.Format("2006-01-02 15:04"),
		padR(colored, 8+(len(colored)-len(r.Status))),
		padL(fmtNum(r.Files)+" files", 10),
		padL(fmtBytes(r.Bytes), 9),
		padL(formatDuration(r.Duration), 7),
		r.Project)
	if r.Error != "" {
		fmt.Fprintf(w, "    %s\n", dim(r.Error))
	}
}

func historySummary(args []string) {
	days := 7
	if len(args) > 0 {
		if args[0] == "all" {
			days = 0
		} else {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				fmt.Fprintf(os.Stderr, "Error: days must be a positive integer or \"all\"\n")
				os.Exit(1)
			}
			days = n
		}
	}

	store, err := history.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.RunStats(days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	groups := history.SummarizeByDay(stats, days)
	if len(groups) == 0 {
		if days == 0 {
			fmt.Println("No runs found.")
		} else {
			fmt.Println("No runs in the last", days, "days.")
		}
		return
	}

	var out strings.Builder
	renderSummaryTable(&out, groups)
	fmt.Print(out.String())
}

func historyClear() {
	store, err := history.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("History cleared.")
}

func historyClean(args []string) {
	if len(args) == 0 {
		// No days argument, clear everything.
		historyClear()
		return
	}

	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		fmt.Fprintf(os.Stderr, "Error: days must be a positive integer\n")
		os.Exit(1)
	}

	store, err := history.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	removed, err := store.Clean(days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d runs, kept the last %d days.\n", removed, days)
}

func historyExport(args []string) {
	days := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: days must be a positive integer\n")
			os.Exit(1)
		}
		days = n
	}

	store, err := history.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Export(os.Stdout, days); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// --- Table layout constants ---

const (
	colProject  = 24 // width of project name column
	colPlatform = 22 // width of platform column (indented by 2)
	colNumber   = 7  // width of numeric columns (Runs, Files, Failed)
	colGap      = 2  // gap between numeric columns
	colPct      = 5  // width of percentage column (fits " 100%")
	// Base separator width covers the fixed columns: project, Runs, Files, and %.
	sepBase   = colProject + 1 + colNumber + colGap + colNumber + colGap + colPct // 48
	sepPerCol = colGap + colNumber                                                // 9
)

// --- ANSI color helpers (disabled when NO_COLOR env var is set) ---

var noColor = os.Getenv("NO_COLOR") != ""

func ansi(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\033[0m"
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func bold(s string) string   { return ansi("\033[1m", s) }
func dim(s string) string    { return ansi("\033[2m", s) }
func cyan(s string) string   { return ansi("\033[36m", s) }
func green(s string) string  { return ansi("\033[32m", s) }
func yellow(s string) string { return ansi("\033[33m", s) }

// fmtNum formats an integer with dot as thousands separator (e.g. 1234 → "1.234").
func fmtNum(n int) string {
	neg := ""
	if n < 0 {
		neg = "-"
		n = -n
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return neg + s
	}
	var buf strings.Builder
	r := len(s) % 3
	if r > 0 {
		buf.WriteString(s[:r])
	}
	for i := r; i < len(s); i += 3 {
		if buf.Len() > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(s[i : i+3])
	}
	return neg + buf.String()
}

// fmtPct formats n as a percentage of total (e.g. "68%"), or "" if total is 0.
func fmtPct(n, total int) string {
	if total == 0 {
		return ""
	}
	return strconv.Itoa(n*100/total) + "%"
}

// padL pads s to width with spaces on the left.
func padL(s string, width int) string {
	if pad := width - len(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// padR pads s to width with spaces on the right.
func padR(s string, width int) string {
	if pad := width - len(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// colorPadL applies a color function to s, then left-pads to width
// (accounting for invisible ANSI escape bytes).
func colorPadL(colorFn func(string) string, s string, width int) string {
	colored := colorFn(s)
	return padL(colored, width+(len(colored)-len(s)))
}

// projectLabel shortens a project path to its directory name so it fits
// the table column. The full path stays visible in the run listing.
func projectLabel(project string) string {
	if base := filepath.Base(project); base != "" && base != "." {
		return base
	}
	return project
}

// renderSummaryTable writes a formatted table of generation stats: one
// subtotal row per project, platform rows indented beneath it.
func renderSummaryTable(w *strings.Builder, groups []history.DayGroup) {
	ad := history.AggregateGroups(groups)

	grandRuns, grandFiles, grandFailed := 0, 0, 0
	for _, pc := range ad.PerProject {
		grandRuns += pc.Runs
		grandFiles += pc.Files
		grandFailed += pc.Failed
	}

	sep := dim("  " + strings.Repeat("─", sepBase+sepPerCol*btoi(ad.HasFailed)))

	// Date line.
	if len(groups) == 1 {
		dg := groups[0]
		fmt.Fprintf(w, "%s\n", dim(fmt.Sprintf("%s  (%s)", dg.Date.Format("2006-01-02"), dg.Date.Format("Monday"))))
	} else {
		fmt.Fprintf(w, "%s\n", dim(fmt.Sprintf("%s — %s",
			groups[len(groups)-1].Date.Format("2006-01-02"),
			groups[0].Date.Format("2006-01-02"))))
	}

	hdr := fmt.Sprintf("  %-*s %*s  %*s  %*s", colProject, "", colNumber, "Runs", colNumber, "Files", colPct, "%")
	if ad.HasFailed {
		hdr += fmt.Sprintf("  %*s", colNumber, "Failed")
	}
	w.WriteString(bold(hdr) + "\n")
	w.WriteString(sep + "\n")

	for pi, project := range ad.ProjectOrder {
		if pi > 0 {
			w.WriteString("\n")
		}
		pc := ad.PerProject[project]
		name := projectLabel(project)

		// Project subtotal row.
		w.WriteString("  " + padR(cyan(name), colProject+(len(cyan(name))-len(name))))
		w.WriteString(" " + padL(fmtNum(pc.Runs), colNumber))
		w.WriteString("  " + padL(fmtNum(pc.Files), colNumber))
		w.WriteString("  " + padL(fmtPct(pc.Files, grandFiles), colPct))
		if ad.HasFailed {
			if pc.Failed > 0 {
				w.WriteString("  " + colorPadL(yellow, fmtNum(pc.Failed), colNumber))
			} else {
				w.WriteString(fmt.Sprintf("  %*s", colNumber, ""))
			}
		}
		w.WriteString("\n")

		// Platform rows (indented).
		for _, pk := range ad.PlatformsByProject[project] {
			c := ad.PerPlatform[pk]
			fmt.Fprintf(w, "    %-*s %*s  %*s", colPlatform, pk.Platform, colNumber, fmtNum(c.Runs), colNumber, fmtNum(c.Files))
			w.WriteString(fmt.Sprintf("  %*s", colPct, ""))
			w.WriteString("\n")
		}
	}

	w.WriteString(sep + "\n")

	totalLine := fmt.Sprintf("  %-*s %*s  %*s  %*s",
		colProject, "Total", colNumber, fmtNum(grandRuns), colNumber, fmtNum(grandFiles), colPct, "")
	w.WriteString(bold(totalLine))
	if ad.HasFailed && grandFailed > 0 {
		w.WriteString("  " + colorPadL(yellow, fmtNum(grandFailed), colNumber))
	}
	w.WriteString("\n")
}
