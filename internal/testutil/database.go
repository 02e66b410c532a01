package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/database"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	sqlDB, err := database.OpenConnection(database.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// ErrInjected is returned by FailingDatabase for the calls it is told to fail.
var ErrInjected = errors.New("injected insert failure")

// FailingDatabase wraps a catalog.Database and rejects selected InsertPackages
// calls, counted from 1, without touching the wrapped store.
type FailingDatabase struct {
	catalog.Database

	mu     sync.Mutex
	calls  int
	failOn map[int]bool
}

// NewFailingDatabase returns a wrapper that fails the listed insert calls.
func NewFailingDatabase(db catalog.Database, failOn ...int) *FailingDatabase {
	f := &FailingDatabase{Database: db, failOn: make(map[int]bool)}
	for _, n := range failOn {
		f.failOn[n] = true
	}
	return f
}

func (f *FailingDatabase) InsertPackages(ctx context.Context, pkgs []*model.Package) error {
	f.mu.Lock()
	f.calls++
	fail := f.failOn[f.calls]
	f.mu.Unlock()

	if fail {
		return ErrInjected
	}
	return f.Database.InsertPackages(ctx, pkgs)
}

// InsertCalls returns how many times InsertPackages was called.
func (f *FailingDatabase) InsertCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
