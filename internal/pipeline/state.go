package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mavwarf/appicon/internal/paths"
)

// stamp records what the last successful run produced, so unchanged
// projects can be skipped.
type stamp struct {
	SourceSHA   string `json:"source_sha"`
	Options     string `json:"options"`
	Platforms   string `json:"platforms"`
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
}

func newStamp(sourceSHA string, opts Options) stamp {
	return stamp{
		SourceSHA: sourceSHA,
		Options:   optionsDigest(opts),
		Platforms: strings.Join(opts.Platforms, ","),
		Version:   opts.Version,
	}
}

// optionsDigest hashes the knobs that change rendered output.
func optionsDigest(opts Options) string {
	var round string
	if opts.Round {
		round = "round"
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{
		opts.Background, opts.Launcher, round,
	}, "|")))
	return hex.EncodeToString(sum[:8])
}

// upToDate reports whether the stamp at path matches want. A missing or
// unreadable state file reads as stale (fail-open: regenerate).
func upToDate(path string, want stamp) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false // missing or unreadable → regenerate
	}

	var have stamp
	if err := json.Unmarshal(data, &have); err != nil {
		return false // corrupt → regenerate
	}

	return have.SourceSHA == want.SourceSHA &&
		have.Options == want.Options &&
		have.Platforms == want.Platforms &&
		have.Version == want.Version
}

// writeState records the stamp after a successful run. Errors are logged
// but never fatal (best-effort).
func writeState(path string, st stamp) {
	st.GeneratedAt = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("state: marshal")
		return
	}
	data = append(data, '\n')

	if err := paths.AtomicWrite(path, data); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("state: write")
	}
}
