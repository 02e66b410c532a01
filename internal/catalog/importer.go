package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// DefaultBatchSize is used when ImportOptions.BatchSize is zero.
const DefaultBatchSize = 1000

// ErrInvalidBatchSize is returned for a negative batch size.
var ErrInvalidBatchSize = errors.New("batch size must be a positive integer")

// Import operation statuses recorded in the history.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// ImportOptions configures one import run.
type ImportOptions struct {
	// Location is handed to the Source, e.g. a path or an https:// or s3:// URL.
	Location string
	// Registry, when set, applies to every record. When nil each record
	// carries its own key.
	Registry *registry.Key
	// BatchSize is the number of rows per insert; 0 selects DefaultBatchSize.
	BatchSize int
}

// BatchResult is the outcome of writing one batch.
type BatchResult struct {
	Index int // 1-based
	Rows  int
	Err   error
}

// Succeeded reports whether the batch was stored.
func (b BatchResult) Succeeded() bool { return b.Err == nil }

// ImportResult accumulates the counts of an import run.
type ImportResult struct {
	OperationID    int64
	Found          int
	Imported       int
	Failed         int
	ParseFailures  int
	InvalidRecords int
	Batches        []BatchResult
}

// FailedBatches returns the batches whose write was rejected.
func (r *ImportResult) FailedBatches() []BatchResult {
	var failed []BatchResult
	for _, b := range r.Batches {
		if !b.Succeeded() {
			failed = append(failed, b)
		}
	}
	return failed
}

func (r *ImportResult) counts() ImportCounts {
	return ImportCounts{Found: r.Found, Imported: r.Imported, Failed: r.Failed}
}

// Import reads the descriptors at opts.Location and stores them in batches.
// Malformed lines, invalid records and rejected batches are counted in the
// result; only configuration, read and format errors abort the run.
func (s *Service) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}
	if opts.Registry != nil {
		if err := opts.Registry.Validate(); err != nil {
			return nil, fmt.Errorf("invalid registry key: %w", err)
		}
	}

	op, err := s.database.CreateImportOperation(ctx, s.clock.Now(), "import", importParameters(opts, batchSize))
	if err != nil {
		return nil, fmt.Errorf("recording import operation: %w", err)
	}

	result := &ImportResult{OperationID: op.ID}
	runErr := s.runImport(ctx, opts, batchSize, result)

	status := StatusSuccess
	switch {
	case runErr != nil:
		status = StatusError
	case result.Failed > 0:
		status = StatusPartial
	}
	if err := s.database.FinishImportOperation(ctx, op.ID, s.clock.Now(), status, result.counts()); err != nil {
		if runErr == nil {
			runErr = fmt.Errorf("finishing import operation: %w", err)
		} else {
			s.logger.Error("failed to finish import operation", "id", op.ID, "error", err)
		}
	}

	if runErr != nil {
		return nil, runErr
	}
	return result, nil
}

func (s *Service) runImport(ctx context.Context, opts ImportOptions, batchSize int, result *ImportResult) error {
	s.logger.Info("reading descriptors", "location", opts.Location)

	data, err := s.readAll(ctx, opts.Location)
	if err != nil {
		return err
	}

	parsed, err := parseDescriptors(data, s.logger)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", opts.Location, err)
	}
	result.ParseFailures = parsed.failures
	result.Found = len(parsed.descriptors) + parsed.failures

	pkgs := make([]*model.Package, 0, len(parsed.descriptors))
	for _, d := range parsed.descriptors {
		p, err := Transform(d, opts.Registry)
		if err != nil {
			s.logger.Warn("skipping invalid record", "error", err)
			result.InvalidRecords++
			continue
		}
		pkgs = append(pkgs, p)
	}
	result.Failed = result.ParseFailures + result.InvalidRecords

	s.logger.Info("found packages to import", "found", result.Found, "valid", len(pkgs))

	for i, batch := range partition(pkgs, batchSize) {
		if err := ctx.Err(); err != nil {
			return err
		}

		b := BatchResult{Index: i + 1, Rows: len(batch)}
		b.Err = s.database.InsertPackages(ctx, batch)
		result.Batches = append(result.Batches, b)

		if b.Err != nil {
			result.Failed += b.Rows
			s.logger.Error("failed to import batch", "batch", b.Index, "rows", b.Rows, "error", b.Err)
			continue
		}
		result.Imported += b.Rows
		s.logger.Info("imported batch", "batch", b.Index, "imported", result.Imported, "total", len(pkgs))
	}

	s.logger.Info("import complete", "found", result.Found, "imported", result.Imported, "failed", result.Failed)
	return nil
}

func (s *Service) readAll(ctx context.Context, location string) ([]byte, error) {
	rc, err := s.source.Open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", location, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return data, nil
}

// partition splits pkgs into consecutive batches of at most size rows.
func partition(pkgs []*model.Package, size int) [][]*model.Package {
	var batches [][]*model.Package
	for start := 0; start < len(pkgs); start += size {
		end := min(start+size, len(pkgs))
		batches = append(batches, pkgs[start:end])
	}
	return batches
}

func importParameters(opts ImportOptions, batchSize int) string {
	if opts.Registry == nil {
		return fmt.Sprintf("location=%s batch_size=%d", opts.Location, batchSize)
	}
	return fmt.Sprintf("location=%s registry=%s batch_size=%d", opts.Location, opts.Registry, batchSize)
}
