package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/JosiahBull/dexy/internal/filesystem"
	"github.com/JosiahBull/dexy/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE scans (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	algorithm   TEXT NOT NULL,
	roots       TEXT NOT NULL
);

CREATE TABLE files (
	scan_id       TEXT NOT NULL REFERENCES scans(id),
	hash          TEXT NOT NULL,
	path          TEXT NOT NULL,
	size          INTEGER,
	created_date  INTEGER,
	accessed_date INTEGER,
	edit_date     INTEGER,
	file_type     TEXT
);

CREATE INDEX idx_files_hash ON files(hash);

CREATE VIEW duplicate_groups AS
	SELECT scan_id, hash, COUNT(*) AS copies
	FROM files
	GROUP BY scan_id, hash
	HAVING COUNT(*) > 1;
`

// generateSQLite writes the index into a fresh SQLite database. The database
// is built under a temporary name and renamed into place when batch commits.
func (g *Generator) generateSQLite(batch *filesystem.Batch, results *models.ScanResults, outputFile string) error {
	scanID := uuid.New().String()

	err := batch.Build(outputFile, 0644, func(tmp *os.File) error {
		if err := tmp.Close(); err != nil {
			return err
		}
		return writeSQLite(tmp.Name(), scanID, results)
	})
	if err != nil {
		return err
	}

	g.logger.Debug("Wrote SQLite index",
		zap.String("scan_id", scanID),
		zap.Int("files", results.Index.FileCount()))
	return nil
}

func writeSQLite(path, scanID string, results *models.ScanResults) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	roots, err := json.Marshal(results.Roots)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`INSERT INTO scans (id, started_at, finished_at, algorithm, roots) VALUES (?, ?, ?, ?, ?)`,
		scanID,
		results.StartTime.UTC().Format(time.RFC3339Nano),
		results.EndTime.UTC().Format(time.RFC3339Nano),
		results.Algorithm,
		string(roots))
	if err != nil {
		return fmt.Errorf("inserting scan: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO files
		(scan_id, hash, path, size, created_date, accessed_date, edit_date, file_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, hash := range results.Index.Keys() {
		for _, r := range results.Index.Group(hash) {
			var size, created, accessed, edited sql.NullInt64
			var fileType sql.NullString
			if a := r.Attributes; a != nil {
				size = sql.NullInt64{Int64: a.Size, Valid: true}
				created = sql.NullInt64{Int64: a.CreatedDate, Valid: true}
				accessed = sql.NullInt64{Int64: a.AccessedDate, Valid: true}
				edited = sql.NullInt64{Int64: a.EditDate, Valid: true}
				fileType = sql.NullString{String: string(a.FileType), Valid: true}
			}
			if _, err := stmt.Exec(scanID, r.Hash, r.Path, size, created, accessed, edited, fileType); err != nil {
				return fmt.Errorf("inserting %s: %w", r.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return db.Close()
}
