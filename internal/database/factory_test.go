package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/config"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"memory keyword", "memory", MemoryPath, false},
		{"memory path", ":memory:", MemoryPath, false},
		{"sqlite absolute", "sqlite:///var/db/pkgsite.db", "/var/db/pkgsite.db", false},
		{"sqlite relative", "sqlite://data/pkgsite.db", "data/pkgsite.db", false},
		{"sqlite3 scheme", "sqlite3:///tmp/x.db", "/tmp/x.db", false},
		{"file url", "file:///tmp/x.db", "/tmp/x.db", false},
		{"file prefix", "file:x.db", "x.db", false},
		{"plain path", "/srv/pkgsite.db", "/srv/pkgsite.db", false},
		{"query stripped", "sqlite:///tmp/x.db?cache=shared", "/tmp/x.db", false},
		{"sqlite memory", "sqlite://:memory:", MemoryPath, false},
		{"surrounding space", "  memory  ", MemoryPath, false},
		{"empty", "", "", true},
		{"scheme without path", "sqlite://", "", true},
		{"postgres", "postgres://localhost/pkgsite", "", true},
		{"mysql", "mysql://root@localhost/pkgsite", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewDatabaseFromConfig(t *testing.T) {
	t.Run("memory database is migrated", func(t *testing.T) {
		got, err := NewDatabaseFromConfig(config.DatabaseConfig{URL: "memory"})
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if err := got.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() error = %v", err)
		}
		if _, err := got.CountPackages(context.Background(), model.PackageFilter{}); err != nil {
			t.Errorf("CountPackages() error = %v, want usable schema", err)
		}
	})

	t.Run("sqlite file database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pkgsite.db")
		got, err := NewDatabaseFromConfig(config.DatabaseConfig{URL: "sqlite://" + path})
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if got.Path() != path {
			t.Errorf("Path() = %q, want %q", got.Path(), path)
		}
		// File databases are migrated explicitly.
		if err := got.CheckMigrations(); err == nil {
			t.Error("CheckMigrations() error = nil, want pending migrations")
		}
	})

	t.Run("empty url", func(t *testing.T) {
		got, err := NewDatabaseFromConfig(config.DatabaseConfig{})
		if err == nil {
			t.Error("NewDatabaseFromConfig() expected error for empty url, got nil")
		}
		if got != nil {
			t.Error("NewDatabaseFromConfig() should return nil on error")
			got.Close()
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		got, err := NewDatabaseFromConfig(config.DatabaseConfig{URL: "postgres://localhost/pkgsite"})
		if err == nil {
			t.Error("NewDatabaseFromConfig() expected error for postgres url, got nil")
		}
		if got != nil {
			got.Close()
		}
	})
}
