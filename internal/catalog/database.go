package catalog

import (
	"context"
	"time"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/sqlc"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// ImportCounts are the totals recorded for a finished import run.
type ImportCounts struct {
	Found    int
	Imported int
	Failed   int
}

// Database provides an interface for catalog storage operations.
type Database interface {
	// Package operations

	// InsertPackages stores pkgs atomically: on error no row of pkgs is stored.
	InsertPackages(ctx context.Context, pkgs []*model.Package) error

	// SearchPackages returns summaries matching filter ordered by name
	// descending, skipping offset rows and returning at most limit.
	SearchPackages(ctx context.Context, filter model.PackageFilter, limit, offset int) ([]*model.Summary, error)

	// CountPackages counts every row matching filter.
	CountPackages(ctx context.Context, filter model.PackageFilter) (int64, error)

	// FindPackageByID returns nil, nil when no row has the given id.
	FindPackageByID(ctx context.Context, id int64) (*model.Package, error)

	// FindPackageByKey returns the newest row for name under key, or nil, nil.
	FindPackageByKey(ctx context.Context, key registry.Key, name string) (*model.Package, error)

	// Import operation tracking

	CreateImportOperation(ctx context.Context, startedAt time.Time, operation string, parameters string) (*sqlc.ImportOperation, error)
	FinishImportOperation(ctx context.Context, id int64, finishedAt time.Time, status string, counts ImportCounts) error

	// ListImportOperations returns the most recent runs, newest first.
	ListImportOperations(ctx context.Context, limit int) ([]*sqlc.ImportOperation, error)

	// Close closes the database connection.
	Close() error
}
