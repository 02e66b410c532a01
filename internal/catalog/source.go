package catalog

import (
	"context"
	"io"
)

// Source opens the raw descriptor stream named by location. Implementations
// are expected to undo any transport compression before returning.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}
