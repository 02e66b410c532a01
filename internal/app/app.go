package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/config"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/database"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/migrations"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/sqlc"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/server"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/source"
)

// ErrNotFound is returned by Show when no package matches.
var ErrNotFound = errors.New("package not found")

// CatalogApp is the application layer between the CLI and the catalog service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw command-line values, and manages the DB lifecycle on Close.
type CatalogApp struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	service *catalog.Service
	logger  *slogAdapter
	op      *Operation
	logFile *os.File
}

// NewCatalogApp creates a fully wired CatalogApp from the given config.
// operation identifies the CLI command being run (e.g. "import", "search").
// The caller must call Close when done.
func NewCatalogApp(ctx context.Context, cfg *config.Config, operation string, parameters ...string) (*CatalogApp, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	resolver, err := source.NewResolverFromConfig(ctx, cfg.Source)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating source: %w", err)
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		db.Close()
		return nil, err
	}

	op := NewOperation(uuidGenerator{}, operation, parameters...)
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, level)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	return &CatalogApp{
		cfg:     cfg,
		db:      db,
		service: catalog.NewService(db, resolver, adapter, catalog.RealClock{}),
		logger:  adapter,
		op:      op,
		logFile: logFile,
	}, nil
}

// Import parses the import command line and runs the import. Batch size
// falls back to import.batch_size from the config.
func (a *CatalogApp) Import(ctx context.Context, args []string) (*catalog.ImportResult, error) {
	opts, err := ParseImportArgs(args)
	if err != nil {
		return nil, err
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = a.cfg.Import.BatchSize
	}

	a.logger.Info("starting import", "operation", a.op.Name, "location", opts.Location)
	return a.service.Import(ctx, opts)
}

// Search runs a faceted search from raw command-line values.
func (a *CatalogApp) Search(ctx context.Context, query, repository, abiVersion, abiArch, period string, page, limit int) (*catalog.SearchResult, error) {
	params, err := catalog.NewSearchParams(query, repository, abiVersion, abiArch, period, page, limit)
	if err != nil {
		return nil, err
	}
	return a.service.Search(ctx, params)
}

// Show returns the package selected by args, or ErrNotFound.
func (a *CatalogApp) Show(ctx context.Context, args []string) (*model.Package, error) {
	target, err := ParseShowArgs(args)
	if err != nil {
		return nil, err
	}

	var p *model.Package
	if target.ByID() {
		p, err = a.service.GetPackageByID(ctx, target.ID)
	} else {
		p, err = a.service.GetPackage(ctx, target.Key, target.Name)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// FilterOptions returns the values each search dimension accepts.
func (a *CatalogApp) FilterOptions() registry.Options {
	return a.service.FilterOptions()
}

// GetHistory returns the most recent import runs.
func (a *CatalogApp) GetHistory(ctx context.Context, limit int) ([]*sqlc.ImportOperation, error) {
	return a.service.History(ctx, limit)
}

// Serve runs the JSON query server until ctx is cancelled. An empty addr
// uses server.addr from the config.
func (a *CatalogApp) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	srv := server.New(a.service, a.logger, server.Options{
		Addr:        addr,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	})
	return srv.Run(ctx)
}

// Close closes the database and the log file.
func (a *CatalogApp) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// Migrate applies pending schema migrations to the configured database.
// It does not need a CatalogApp since the app refuses an outdated schema.
func Migrate(cfg *config.Config) error {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// DatabaseStatus describes the configured database for `migrate --status`.
type DatabaseStatus struct {
	Path   string
	Schema migrations.Status
	// LatestImportID is the id of the newest import run, 0 when none ran
	// or the import history table does not exist yet.
	LatestImportID int64
}

// importHistoryVersion is the migration that creates import_operations.
const importHistoryVersion = 2

// Status reports the schema version of the configured database and its
// newest import run without changing anything.
func Status(ctx context.Context, cfg *config.Config) (*DatabaseStatus, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	st, err := db.MigrationStatus()
	if err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}
	status := &DatabaseStatus{Path: db.Path(), Schema: st}

	if st.Current >= importHistoryVersion && !st.Dirty {
		if status.LatestImportID, err = db.MaxImportOperationID(ctx); err != nil {
			return nil, err
		}
	}
	return status, nil
}
