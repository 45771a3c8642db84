// Package fetch downloads remote source images into the local cache.
package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mavwarf/appicon/internal/paths"
)

// Client is a shared HTTP client with a 30-second timeout, used for all
// remote fetches to avoid indefinite hangs on unresponsive servers.
var Client = &http.Client{Timeout: 30 * time.Second}

// IsURL reports whether s names a remote source.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Download fetches a remote image into the cache directory and returns the
// local path. The cache name includes a digest of the URL so distinct
// sources never collide.
func Download(rawurl string) (string, error) {
	return download(rawurl, paths.CacheDir())
}

func download(rawurl, cacheDir string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("parsing source URL: %w", err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "source.png"
	}

	sum := sha256.Sum256([]byte(rawurl))
	dest := filepath.Join(cacheDir, hex.EncodeToString(sum[:8])+"_"+name)

	log.Debug().Str("url", rawurl).Str("dest", dest).Msg("downloading source image")

	resp, err := Client.Get(rawurl)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawurl, err)
	}
	defer resp.Body.Close()

	if err := CheckStatus(resp, "source fetch"); err != nil {
		return "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rawurl, err)
	}
	if err := paths.AtomicWrite(dest, data); err != nil {
		return "", fmt.Errorf("caching %s: %w", rawurl, err)
	}
	return dest, nil
}

// CheckStatus returns an error if the response status code is not 2xx.
// The prefix is included in the error message for context.
func CheckStatus(resp *http.Response, prefix string) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d: %s", prefix, resp.StatusCode, ReadSnippet(resp.Body))
	}
	return nil
}

// ReadSnippet reads up to 200 bytes from r for inclusion in error messages.
func ReadSnippet(r io.Reader) string {
	buf := make([]byte, 200)
	n, _ := io.ReadFull(r, buf)
	if n == 0 {
		return "(empty body)"
	}
	s := string(buf[:n])
	if n == 200 {
		s += "..."
	}
	return s
}
