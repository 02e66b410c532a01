package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/config"
)

// ParseURL maps a connection string onto a SQLite path. Accepted forms are
// sqlite:///abs/path, sqlite://rel/path, file:path, a plain path, and
// ":memory:" or "memory" for a private in-memory database.
func ParseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("database url is empty")
	}

	path := raw
	switch {
	case raw == "memory" || raw == MemoryPath:
		return MemoryPath, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path = strings.TrimPrefix(raw, "sqlite://")
	case strings.HasPrefix(raw, "sqlite3://"):
		path = strings.TrimPrefix(raw, "sqlite3://")
	case strings.HasPrefix(raw, "file://"):
		path = strings.TrimPrefix(raw, "file://")
	case strings.HasPrefix(raw, "file:"):
		path = strings.TrimPrefix(raw, "file:")
	case strings.Contains(raw, "://"):
		scheme, _, _ := strings.Cut(raw, "://")
		return "", fmt.Errorf("unsupported database scheme: %s", scheme)
	}

	// Driver options are set by OpenConnection.
	path, _, _ = strings.Cut(path, "?")
	if path == "" {
		return "", fmt.Errorf("database url %q has no path", raw)
	}
	if path == MemoryPath {
		return MemoryPath, nil
	}
	return path, nil
}

// NewDatabaseFromURL opens the database a connection string points at.
// In-memory databases are migrated immediately since they start empty.
func NewDatabaseFromURL(raw string) (*SQLiteDatabase, error) {
	path, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}

	if path == MemoryPath {
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating in-memory database: %w", err)
		}
	}
	return db, nil
}

// NewDatabaseFromConfig creates the catalog store described by cfg.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*SQLiteDatabase, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url required: set DATABASE_URL or database.url")
	}
	return NewDatabaseFromURL(cfg.URL)
}
