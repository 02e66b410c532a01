package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemorySource serves descriptor files held in memory, making it useful for
// testing. This implementation is safe for concurrent use.
type MemorySource struct {
	files map[string][]byte // location -> raw bytes
	mu    sync.RWMutex
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{files: make(map[string][]byte)}
}

// Put stores data under location, replacing any previous content.
func (m *MemorySource) Put(location string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[location] = bytes.Clone(data)
}

// OpenRaw returns the bytes stored under location.
func (m *MemorySource) OpenRaw(_ context.Context, location string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Open returns the decompressed descriptor stream stored under location,
// so a MemorySource can stand in for a Resolver.
func (m *MemorySource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	raw, err := m.OpenRaw(ctx, location)
	if err != nil {
		return nil, err
	}
	return Decompress(raw, 0)
}

var _ Opener = (*MemorySource)(nil)
