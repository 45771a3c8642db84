// Package history records generation runs in a SQLite database so past
// output can be listed, summarized, and cleaned up.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mavwarf/appicon/internal/paths"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Run is one recorded generation run.
type Run struct {
	ID        int64
	Time      time.Time
	Project   string
	Source    string
	SourceSHA string
	Platforms []string
	Files     int
	Bytes     int64
	Duration  time.Duration
	Status    string
	Error     string
}

// Artifact is one file written during a run.
type Artifact struct {
	Platform string
	Path     string
	Width    int
	Height   int
	Bytes    int64
}

// RunStat is one run/platform aggregation row used by the summary view.
// Runs that produced no artifacts appear once with an empty Platform.
type RunStat struct {
	RunID    int64
	Time     time.Time
	Project  string
	Status   string
	Platform string
	Files    int
	Bytes    int64
}

// Store wraps the history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp   TEXT    NOT NULL,
    project     TEXT    NOT NULL DEFAULT '',
    source      TEXT    NOT NULL DEFAULT '',
    source_sha  TEXT    NOT NULL DEFAULT '',
    platforms   TEXT    NOT NULL DEFAULT '',
    files       INTEGER NOT NULL DEFAULT 0,
    bytes       INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    status      TEXT    NOT NULL DEFAULT '',
    error       TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS artifacts (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id   INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    platform TEXT    NOT NULL,
    path     TEXT    NOT NULL,
    width    INTEGER NOT NULL DEFAULT 0,
    height   INTEGER NOT NULL DEFAULT 0,
    bytes    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_runs_project   ON runs(project, status);
CREATE INDEX IF NOT EXISTS idx_artifacts_run  ON artifacts(run_id);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// OpenDefault opens the history database in the user data directory.
func OpenDefault() (*Store, error) {
	return Open(paths.HistoryDBPath())
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// LogRun records a run and its artifacts in one transaction and returns
// the new run id.
func (s *Store) LogRun(run Run, artifacts []Artifact) (int64, error) {
	ts := run.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (timestamp, project, source, source_sha, platforms, files, bytes, duration_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339), run.Project, run.Source, run.SourceSHA,
		strings.Join(run.Platforms, ","), run.Files, run.Bytes,
		run.Duration.Milliseconds(), run.Status, run.Error,
	)
	if err != nil {
		return 0, err
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, a := range artifacts {
		if _, err := tx.Exec(
			`INSERT INTO artifacts (run_id, platform, path, width, height, bytes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, a.Platform, a.Path, a.Width, a.Height, a.Bytes,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// Runs returns recorded runs from the last N calendar days in insertion
// order. Pass days=0 for all runs.
func (s *Store) Runs(days int) ([]Run, error) {
	query := `SELECT id, timestamp, project, source, source_sha, platforms, files, bytes, duration_ms, status, error
		FROM runs`
	var args []any
	if days > 0 {
		query += ` WHERE timestamp >= ?`
		args = append(args, DayCutoff(days).Format(time.RFC3339))
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var tsStr, platformsCSV string
		var durationMS int64
		if err := rows.Scan(&r.ID, &tsStr, &r.Project, &r.Source, &r.SourceSHA,
			&platformsCSV, &r.Files, &r.Bytes, &durationMS, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		r.Time = ts
		if platformsCSV != "" {
			r.Platforms = strings.Split(platformsCSV, ",")
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunStats returns one row per run and platform for the last N calendar
// days, joining artifact counts onto runs. Pass days=0 for all runs.
func (s *Store) RunStats(days int) ([]RunStat, error) {
	query := `SELECT r.id, r.timestamp, r.project, r.status,
			COALESCE(a.platform, ''), COUNT(a.id), COALESCE(SUM(a.bytes), 0)
		FROM runs r LEFT JOIN artifacts a ON a.run_id = r.id`
	var args []any
	if days > 0 {
		query += ` WHERE r.timestamp >= ?`
		args = append(args, DayCutoff(days).Format(time.RFC3339))
	}
	query += ` GROUP BY r.id, a.platform ORDER BY r.id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []RunStat
	for rows.Next() {
		var st RunStat
		var tsStr string
		if err := rows.Scan(&st.RunID, &tsStr, &st.Project, &st.Status,
			&st.Platform, &st.Files, &st.Bytes); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		st.Time = ts
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// LastArtifacts returns the artifacts of the most recent successful run
// for a project, or nil when the project has none.
func (s *Store) LastArtifacts(project string) ([]Artifact, error) {
	rows, err := s.db.Query(
		`SELECT a.platform, a.path, a.width, a.height, a.bytes
		 FROM artifacts a
		 WHERE a.run_id = (SELECT id FROM runs WHERE project = ? AND status = ? ORDER BY id DESC LIMIT 1)
		 ORDER BY a.id`,
		project, StatusOK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.Platform, &a.Path, &a.Width, &a.Height, &a.Bytes); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// Clean deletes runs older than N calendar days and returns the number
// of removed runs. Artifacts cascade.
func (s *Store) Clean(days int) (int, error) {
	cutoff := DayCutoff(days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Clear removes all recorded runs.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM runs`)
	return err
}

// Export writes runs from the last N calendar days as indented JSON.
// Pass days=0 for all runs.
func (s *Store) Export(w io.Writer, days int) error {
	runs, err := s.Runs(days)
	if err != nil {
		return err
	}

	type exportRun struct {
		ID         int64    `json:"id"`
		Time       string   `json:"time"`
		Project    string   `json:"project"`
		Source     string   `json:"source"`
		SourceSHA  string   `json:"source_sha"`
		Platforms  []string `json:"platforms"`
		Files      int      `json:"files"`
		Bytes      int64    `json:"bytes"`
		DurationMS int64    `json:"duration_ms"`
		Status     string   `json:"status"`
		Error      string   `json:"error,omitempty"`
	}
	out := make([]exportRun, len(runs))
	for i, r := range runs {
		out[i] = exportRun{
			ID:         r.ID,
			Time:       r.Time.Format(time.RFC3339),
			Project:    r.Project,
			Source:     r.Source,
			SourceSHA:  r.SourceSHA,
			Platforms:  r.Platforms,
			Files:      r.Files,
			Bytes:      r.Bytes,
			DurationMS: r.Duration.Milliseconds(),
			Status:     r.Status,
			Error:      r.Error,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
