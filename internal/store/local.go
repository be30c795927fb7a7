// Package store persists calculator history and settings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"calcnerd/internal/history"
	"calcnerd/internal/logging"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverCGo     = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// LocalStore implements history.Store and memory.Store on a single SQLite
// database file.
//
// Tables:
//   - history: calculation records in insertion order (seq)
//   - settings: small key/value pairs such as the memory register
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	driver string
}

// NewLocalStore opens (or creates) the database at path using driver. An
// empty driver selects DriverModernc.
func NewLocalStore(path, driver string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	if driver == "" {
		driver = DriverModernc
	}
	dsn, err := dataSourceName(path, driver)
	if err != nil {
		return nil, err
	}

	logging.Store("Initializing LocalStore at path: %s (driver %s)", path, driver)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create directory for %s: %v", path, err)
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if driver == DriverModernc {
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
		}
	}

	s := &LocalStore{db: db, dbPath: path, driver: driver}
	from := GetSchemaVersion(db)
	if err := s.initialize(); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	if _, err := migrate(db, path, from); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to migrate schema: %v", err)
		db.Close()
		return nil, err
	}
	return s, nil
}

func dataSourceName(path, driver string) (string, error) {
	switch driver {
	case DriverModernc:
		return path, nil
	case DriverCGo:
		return path + "?_journal_mode=WAL&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q (valid: %s, %s)", driver, DriverModernc, DriverCGo)
	}
}

// initialize creates the required tables in their current shape. Tables
// from older databases are left alone for migrate to upgrade.
func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		expr TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *LocalStore) Path() string {
	return s.dbPath
}

// Driver returns the database/sql driver in use.
func (s *LocalStore) Driver() string {
	return s.driver
}

// GetStats returns row counts per table.
func (s *LocalStore) GetStats() (map[string]int64, error) {
	timer := logging.StartTimer(logging.CategoryStore, "GetStats")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int64)
	for _, table := range []string{"history", "settings"} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			logging.StoreDebug("Table %s count failed: %v", table, err)
			continue
		}
		stats[table] = count
	}
	return stats, nil
}

// ========== History ==========

// AppendHistory inserts e after every existing entry.
func (s *LocalStore) AppendHistory(ctx context.Context, e history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, expr, result, created_at) VALUES (?, ?, ?, ?)`,
		e.ID.String(), e.Expr, formatFloat(e.Result), e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}
	return nil
}

// ListHistory returns every entry, oldest first.
func (s *LocalStore) ListHistory(ctx context.Context) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, expr, result, created_at FROM history ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetHistory returns the entry with the given ID.
func (s *LocalStore) GetHistory(ctx context.Context, id uuid.UUID) (history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT id, expr, result, created_at FROM history WHERE id = ?`, id.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Entry{}, fmt.Errorf("%s: %w", id, history.ErrNotFound)
	}
	return e, err
}

// TrimHistory deletes the oldest entries so at most limit remain and
// returns how many were removed.
func (s *LocalStore) TrimHistory(ctx context.Context, limit int) (int, error) {
	if limit < 0 {
		limit = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`,
		limit,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to trim history: %w", err)
	}
	n, err := rowsAffected(res, "trimmed history")
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logging.StoreDebug("Trimmed %d history entries (limit %d)", n, limit)
	}
	return n, nil
}

func rowsAffected(res sql.Result, what string) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return int(n), nil
}

// ClearHistory deletes every entry.
func (s *LocalStore) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (history.Entry, error) {
	var id, expr, result, created string
	if err := sc.Scan(&id, &expr, &result, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return history.Entry{}, err
		}
		return history.Entry{}, fmt.Errorf("failed to scan history row: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return history.Entry{}, fmt.Errorf("invalid history id %q: %w", id, err)
	}
	value, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return history.Entry{}, fmt.Errorf("invalid history result %q: %w", result, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		logging.StoreDebug("Unparseable created_at %q for %s: %v", created, id, err)
	}
	return history.Entry{ID: parsedID, Expr: expr, Result: value, CreatedAt: createdAt}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ========== Settings ==========

// GetSetting returns the value stored under key and whether it exists.
func (s *LocalStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting stores value under key, replacing any previous value.
func (s *LocalStore) PutSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
