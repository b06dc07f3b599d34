// This file writes the current working set to a SQLite database so the
// filtered commits can be queried with plain SQL after the TUI exits.
package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/commitpulse/commitpulse/pkg/metrics"
	"github.com/commitpulse/commitpulse/pkg/model"
	"github.com/commitpulse/commitpulse/pkg/version"

	_ "modernc.org/sqlite"
)

// SchemaVersion tracks the export database layout.
const SchemaVersion = 1

// ExportSQLite writes the snapshot's commits, hotspots, and temporal
// buckets to a fresh SQLite database at path. An existing file at path
// is replaced.
func ExportSQLite(path string, snap model.Snapshot) error {
	if len(snap.Commits) == 0 && len(snap.Hotspots) == 0 && len(snap.Temporal) == 0 {
		return fmt.Errorf("nothing to export: snapshot is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := createSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := insertCommits(db, snap.Commits); err != nil {
		return fmt.Errorf("insert commits: %w", err)
	}
	if err := insertHotspots(db, snap.Hotspots); err != nil {
		return fmt.Errorf("insert hotspots: %w", err)
	}
	if err := insertTemporal(db, snap.Temporal); err != nil {
		return fmt.Errorf("insert temporal buckets: %w", err)
	}
	if err := insertMeta(db, snap); err != nil {
		return fmt.Errorf("insert metadata: %w", err)
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS commits (
			sha TEXT PRIMARY KEY,
			author_name TEXT NOT NULL,
			author_email TEXT,
			message TEXT,
			commit_date TEXT,
			added_lines INTEGER NOT NULL,
			deleted_lines INTEGER NOT NULL,
			total_score_100 REAL,
			det_difficulty REAL NOT NULL,
			det_quality REAL NOT NULL,
			det_size REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hotspots (
			rank INTEGER PRIMARY KEY,
			file TEXT NOT NULL,
			changes INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS temporal_buckets (
			day TEXT NOT NULL,
			hour INTEGER NOT NULL,
			commits INTEGER NOT NULL,
			PRIMARY KEY (day, hour)
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_commits_author ON commits(author_name)`,
		`CREATE INDEX IF NOT EXISTS idx_commits_date ON commits(commit_date)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func insertCommits(db *sql.DB, commits []model.CommitRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO commits
		(sha, author_name, author_email, message, commit_date,
		 added_lines, deleted_lines, total_score_100,
		 det_difficulty, det_quality, det_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range commits {
		det := metrics.Deterministic(c.AddedLines, c.DeletedLines)
		var score interface{}
		if c.TotalScore != nil {
			score = *c.TotalScore
		}
		var date interface{}
		if !c.CommitDate.IsZero() {
			date = c.CommitDate.Format(time.RFC3339)
		}
		if _, err := stmt.Exec(c.Sha, c.AuthorName, c.AuthorEmail, c.Message, date,
			c.AddedLines, c.DeletedLines, score,
			det.Difficulty, det.Quality, det.Size); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertHotspots(db *sql.DB, hotspots []model.Hotspot) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO hotspots (rank, file, changes) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range hotspots {
		if _, err := stmt.Exec(i+1, h.File, h.Changes); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertTemporal(db *sql.DB, buckets []model.TemporalBucket) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO temporal_buckets (day, hour, commits) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range buckets {
		if _, err := stmt.Exec(b.Day, b.Hour, b.Commits); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertMeta(db *sql.DB, snap model.Snapshot) error {
	entries := map[string]string{
		"schema_version": fmt.Sprintf("%d", SchemaVersion),
		"cpulse_version": version.Version,
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
		"project_key":    snap.Spec.ProjectKey,
		"repo_name":      snap.Spec.RepoName,
		"branch_name":    snap.Spec.BranchName,
		"author_email":   snap.Spec.AuthorEmail,
		"fetched_at":     snap.FetchedAt.UTC().Format(time.RFC3339),
	}
	if !snap.Spec.Since.IsZero() {
		entries["since"] = snap.Spec.Since.Format(time.RFC3339)
		entries["until"] = snap.Spec.Until.Format(time.RFC3339)
	}

	stmt, err := db.Prepare(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range entries {
		if _, err := stmt.Exec(k, v); err != nil {
			return err
		}
	}
	return nil
}
