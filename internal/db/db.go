// Package db wraps the SQLite store used for application settings and the
// price-history response cache. Efficiency results are deliberately not
// persisted; every ranking is recomputed from live data.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"clans-optimizer/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "optimizer.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "optimizer.db")
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open() (*DB, error) {
	path := dbPath()
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS price_history (
				item_id   INTEGER NOT NULL,
				period    TEXT NOT NULL,
				timestamp TEXT NOT NULL,
				price     REAL NOT NULL,
				volume    INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_price_history ON price_history(item_id, period);

			CREATE TABLE IF NOT EXISTS price_history_meta (
				item_id    INTEGER NOT NULL,
				period     TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (item_id, period)
			);

			INSERT OR REPLACE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return err
		}
	}
	return nil
}
