package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/migrations"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/sqlc"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"

	"github.com/mattn/go-sqlite3"
)

// MemoryPath is the path that selects a private in-memory database.
const MemoryPath = ":memory:"

// driverName is the go-sqlite3 driver with the catalog's SQL functions
// registered on every connection.
const driverName = "sqlite3_pkgsite"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// fold lowercases full Unicode; the built-in lower() and LIKE only fold ASCII.
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// SQLiteDatabase implements catalog.Database on top of SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase opens the database at path. path can be a file path or
// ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    "",
	}
}

// OpenConnection opens and configures a SQLite connection pool.
// Exported for tools and tests that need the same configuration as the store.
func OpenConnection(path string) (*sql.DB, error) {
	if path == MemoryPath {
		db, err := sql.Open(driverName, MemoryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil
	}

	// Pragmas go in the DSN so that every pooled connection gets them.
	params := url.Values{}
	params.Set("_foreign_keys", "1")
	params.Set("_busy_timeout", "5000")
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")

	db, err := sql.Open(driverName, "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	return db, nil
}

// Package operations

// insertColumns is the column order used by InsertPackages.
var insertColumns = []string{
	"abi_version", "abi_arch", "repository", "period",
	"name", "origin", "version", "comment", "maintainer", "www",
	"abi", "arch", "prefix", "sum", "flat_size", "path", "repo_path",
	"license_logic", "licenses", "pkg_size", "description", "categories",
	"shlibs_required", "annotations", "dependencies", "options", "messages",
	"shlibs_provided", "users", `"groups"`,
}

// maxVariables is SQLITE_MAX_VARIABLE_NUMBER for the bundled SQLite.
const maxVariables = 32766

// rowsPerStatement keeps a single INSERT under the bound-variable limit.
var rowsPerStatement = maxVariables / len(insertColumns)

// InsertPackages writes pkgs atomically: either every row is stored or none is.
// Rows are sent as multi-row INSERT statements inside one transaction.
func (s *SQLiteDatabase) InsertPackages(ctx context.Context, pkgs []*model.Package) error {
	if len(pkgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(pkgs); start += rowsPerStatement {
		end := min(start+rowsPerStatement, len(pkgs))
		chunk := pkgs[start:end]

		args := make([]any, 0, len(chunk)*len(insertColumns))
		for _, p := range chunk {
			row, err := packageArgs(p)
			if err != nil {
				return fmt.Errorf("encoding package %s: %w", p.Name, err)
			}
			args = append(args, row...)
		}

		if _, err := tx.ExecContext(ctx, insertStatement(len(chunk)), args...); err != nil {
			return fmt.Errorf("inserting packages: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertStatement(rows int) string {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(insertColumns)), ", ") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO packages (")
	b.WriteString(strings.Join(insertColumns, ", "))
	b.WriteString(") VALUES ")
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
	}
	return b.String()
}

// SearchPackages returns one page of summaries matching filter, ordered by
// name descending.
func (s *SQLiteDatabase) SearchPackages(ctx context.Context, filter model.PackageFilter, limit, offset int) ([]*model.Summary, error) {
	where, args := buildPackageFilter(filter)
	query := "SELECT id, name, abi_version, abi_arch, repository, period, version, comment FROM packages" +
		where + " ORDER BY name DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching packages: %w", err)
	}
	defer rows.Close()

	result := []*model.Summary{}
	for rows.Next() {
		var (
			sum                                     model.Summary
			abiVersion, abiArch, repository, period string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &abiVersion, &abiArch, &repository, &period, &sum.Version, &sum.Comment); err != nil {
			return nil, fmt.Errorf("scanning package summary: %w", err)
		}
		sum.AbiVersion = registry.AbiVersion(abiVersion)
		sum.AbiArch = registry.AbiArch(abiArch)
		sum.Repository = registry.Repository(repository)
		sum.Period = registry.Period(period)
		result = append(result, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching packages: %w", err)
	}
	return result, nil
}

// CountPackages counts every row matching filter.
func (s *SQLiteDatabase) CountPackages(ctx context.Context, filter model.PackageFilter) (int64, error) {
	where, args := buildPackageFilter(filter)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM packages"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting packages: %w", err)
	}
	return count, nil
}

// FindPackageByID returns the package with the given id, or nil if there is none.
func (s *SQLiteDatabase) FindPackageByID(ctx context.Context, id int64) (*model.Package, error) {
	row, err := s.queries.GetPackageByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding package by id: %w", err)
	}
	return packageFromRow(&row)
}

// FindPackageByKey returns the most recently imported package with the given
// name under key, or nil if there is none.
func (s *SQLiteDatabase) FindPackageByKey(ctx context.Context, key registry.Key, name string) (*model.Package, error) {
	row, err := s.queries.GetPackageByKey(ctx, sqlc.GetPackageByKeyParams{
		AbiVersion: string(key.AbiVersion),
		AbiArch:    string(key.AbiArch),
		Repository: string(key.Repository),
		Period:     string(key.Period),
		Name:       name,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding package by key: %w", err)
	}
	return packageFromRow(&row)
}

// Import operation tracking

func (s *SQLiteDatabase) CreateImportOperation(ctx context.Context, startedAt time.Time, operation string, parameters string) (*sqlc.ImportOperation, error) {
	op, err := s.queries.InsertImportOperation(ctx, sqlc.InsertImportOperationParams{
		StartedAt:  startedAt.UTC(),
		Operation:  operation,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("creating import operation: %w", err)
	}
	return &op, nil
}

func (s *SQLiteDatabase) FinishImportOperation(ctx context.Context, id int64, finishedAt time.Time, status string, counts catalog.ImportCounts) error {
	err := s.queries.FinishImportOperation(ctx, sqlc.FinishImportOperationParams{
		FinishedAt: sql.NullTime{Time: finishedAt.UTC(), Valid: true},
		Status:     status,
		Found:      int64(counts.Found),
		Imported:   int64(counts.Imported),
		Failed:     int64(counts.Failed),
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing import operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListImportOperations(ctx context.Context, limit int) ([]*sqlc.ImportOperation, error) {
	ops, err := s.queries.ListImportOperations(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing import operations: %w", err)
	}

	result := make([]*sqlc.ImportOperation, len(ops))
	for i := range ops {
		result[i] = &ops[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) MaxImportOperationID(ctx context.Context) (int64, error) {
	id, err := s.queries.GetMaxImportOperationID(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting max import operation ID: %w", err)
	}
	return id, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus reports the schema version relative to the binary.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// Migrate applies pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements catalog.Database.
var _ catalog.Database = (*SQLiteDatabase)(nil)
