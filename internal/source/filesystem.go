package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystemSource opens descriptor files from local disk. Relative paths
// resolve against root when one is set.
type FileSystemSource struct {
	root string
}

// NewFileSystemSource creates a source rooted at root, which may be empty.
func NewFileSystemSource(root string) *FileSystemSource {
	return &FileSystemSource{root: root}
}

// OpenRaw opens the file named by location, a plain path or file:// URL.
func (s *FileSystemSource) OpenRaw(_ context.Context, location string) (io.ReadCloser, error) {
	p := strings.TrimPrefix(location, "file://")
	if s.root != "" && !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

var _ Opener = (*FileSystemSource)(nil)
