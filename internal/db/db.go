package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"nanopack/internal/config"
	"nanopack/internal/errors"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/nanopack.db.
// The baseDir parameter allows tests to use t.TempDir() instead of
// ~/.nanopack. Failure to open the database is reported as
// STORAGE_UNAVAILABLE.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.NewStorageUnavailable(fmt.Errorf("create base directory: %w", err))
	}
	_ = os.Chmod(baseDir, 0700)

	// Bundles built from the CLI land here by default.
	bundlesDir := filepath.Join(baseDir, "bundles")
	if err := os.MkdirAll(bundlesDir, 0700); err != nil {
		return nil, errors.NewStorageUnavailable(fmt.Errorf("create bundles directory: %w", err))
	}
	_ = os.Chmod(bundlesDir, 0700)

	// Pragmas go in the connection string so they apply to all connections.
	dbPath := filepath.Join(baseDir, "nanopack.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}

	if err := verifyWALMode(database); err != nil {
		database.Close()
		return nil, errors.NewStorageUnavailable(err)
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return database, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(database *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(database *sql.DB) error {
	version, err := GetUserVersion(database)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS assets (
		  id            TEXT PRIMARY KEY,
		  project_id    TEXT NOT NULL,
		  project_name  TEXT NOT NULL,
		  variant       INTEGER NOT NULL,
		  file_name     TEXT NOT NULL,
		  kind          TEXT NOT NULL,
		  payload       TEXT NOT NULL,
		  width         INTEGER,
		  height        INTEGER,
		  created_at    INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_assets_created_at
		ON assets(created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_assets_project_id
		ON assets(project_id);
		`
		if _, err := database.Exec(schema); err != nil {
			return errors.NewInternal(fmt.Errorf("migration 1 failed: %w", err))
		}
		if err := SetUserVersion(database, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(database *sql.DB) error {
	var journalMode string
	if err := database.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(database *sql.DB) (int, error) {
	var version int
	if err := database.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, errors.NewInternal(fmt.Errorf("failed to get user_version: %w", err))
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(database *sql.DB, version int) error {
	_, err := database.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to set user_version: %w", err))
	}
	return nil
}
