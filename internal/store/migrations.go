package store

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"calcnerd/internal/logging"
)

// Schema versions:
// v1: history(seq, id, expr, result) and settings(key, value)
// v2: history.created_at and settings.updated_at timestamps
// v3: index on history.created_at
const CurrentSchemaVersion = 3

// MigrationResult holds the result of a migration run.
type MigrationResult struct {
	FromVersion  int
	ToVersion    int
	ColumnsAdded int
	BackupPath   string
	Duration     time.Duration
}

// Migration adds a column that older databases are missing.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists the columns added after v1. ADD COLUMN needs a
// default for NOT NULL columns, so rows written before v2 carry "".
var pendingMigrations = []Migration{
	{"history", "created_at", "TEXT NOT NULL DEFAULT ''"},
	{"settings", "updated_at", "TEXT NOT NULL DEFAULT ''"},
}

// migrate brings an initialized database from version from up to
// CurrentSchemaVersion. A file database that predates the current version is
// copied aside first.
func migrate(db *sql.DB, dbPath string, from int) (*MigrationResult, error) {
	timer := logging.StartTimer(logging.CategoryStore, "migrate")
	defer timer.Stop()

	start := time.Now()
	result := &MigrationResult{
		FromVersion: from,
		ToVersion:   CurrentSchemaVersion,
	}
	if result.FromVersion >= CurrentSchemaVersion {
		logging.StoreDebug("Schema at v%d, no migration needed", result.FromVersion)
		return result, nil
	}

	if result.FromVersion > 0 && dbPath != ":memory:" {
		backup, err := CreateBackup(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create backup: %w", err)
		}
		result.BackupPath = backup
	}

	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) || columnExists(db, m.Table, m.Column) {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		logging.StoreDebug("Executing migration: %s", query)
		if _, err := db.Exec(query); err != nil {
			return nil, fmt.Errorf("failed to add %s.%s: %w", m.Table, m.Column, err)
		}
		logging.Store("Migration applied: added %s.%s", m.Table, m.Column)
		result.ColumnsAdded++
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at)`); err != nil {
		return nil, fmt.Errorf("failed to create history index: %w", err)
	}

	if err := SetSchemaVersion(db, CurrentSchemaVersion); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	logging.Store("Migration complete: v%d -> v%d in %v (columns added=%d)",
		result.FromVersion, result.ToVersion, result.Duration, result.ColumnsAdded)
	return result, nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info.
func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		logging.StoreDebug("PRAGMA table_info(%s) failed: %v", table, err)
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

// tableExists checks if a table exists in the database.
func tableExists(db *sql.DB, table string) bool {
	var count int
	query := "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?"
	if err := db.QueryRow(query, table).Scan(&count); err != nil {
		logging.StoreDebug("Table existence check failed for %s: %v", table, err)
		return false
	}
	return count > 0
}

// GetSchemaVersion returns the recorded schema version. Databases without a
// schema_versions table are v1 when they hold a history table and v0 when
// they are empty.
func GetSchemaVersion(db *sql.DB) int {
	if tableExists(db, "schema_versions") {
		var version int
		query := "SELECT version FROM schema_versions ORDER BY id DESC LIMIT 1"
		if err := db.QueryRow(query).Scan(&version); err == nil {
			return version
		}
	}
	if tableExists(db, "history") {
		return 1
	}
	return 0
}

// SetSchemaVersion records a new schema version in the database.
func SetSchemaVersion(db *sql.DB, version int) error {
	createTable := `
		CREATE TABLE IF NOT EXISTS schema_versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL,
			applied_at TEXT NOT NULL,
			description TEXT
		)
	`
	if _, err := db.Exec(createTable); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	_, err := db.Exec(
		"INSERT INTO schema_versions (version, applied_at, description) VALUES (?, ?, ?)",
		version, time.Now().UTC().Format(time.RFC3339Nano), fmt.Sprintf("Migrated to schema version %d", version),
	)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	logging.Store("Schema version set to %d", version)
	return nil
}

// CreateBackup copies the database file next to itself and returns the
// copy's path.
func CreateBackup(dbPath string) (string, error) {
	backupPath := dbPath + fmt.Sprintf(".backup_%s", time.Now().Format("20060102_150405"))
	logging.Store("Creating database backup: %s -> %s", dbPath, backupPath)

	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return "", fmt.Errorf("failed to copy database to backup: %w", err)
	}
	if err := dst.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync backup to disk: %w", err)
	}

	logging.Store("Database backup created: %s (%d bytes)", backupPath, n)
	return backupPath, nil
}
