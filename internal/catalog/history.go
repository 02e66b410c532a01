package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/sqlc"
)

// Clock stamps the start and finish of import runs.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// History returns the most recent import runs, ordered newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*sqlc.ImportOperation, error) {
	ops, err := s.database.ListImportOperations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing import operations: %w", err)
	}
	return ops, nil
}
