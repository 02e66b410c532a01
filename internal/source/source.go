// Package source opens pkg descriptor files from local disk, HTTP(S)
// servers, S3 buckets or memory, undoing any compression on the way.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
)

// ErrNotFound is returned when a location does not exist.
var ErrNotFound = errors.New("source not found")

// Opener opens the raw, possibly compressed, bytes at a location.
type Opener interface {
	OpenRaw(ctx context.Context, location string) (io.ReadCloser, error)
}

// Resolver dispatches a location to the Opener registered for its scheme.
// Locations without a scheme go to the "file" opener.
type Resolver struct {
	openers  map[string]Opener
	maxBytes int64
}

// NewResolver creates a Resolver with no openers registered.
func NewResolver() *Resolver {
	return &Resolver{openers: make(map[string]Opener)}
}

// Register binds scheme (without "://") to o, replacing any previous opener.
func (r *Resolver) Register(scheme string, o Opener) {
	r.openers[scheme] = o
}

// LimitBytes caps the decompressed size of every stream Open returns.
// n <= 0 removes the cap.
func (r *Resolver) LimitBytes(n int64) {
	r.maxBytes = n
}

// Open resolves location, opens it and returns the decompressed descriptor stream.
func (r *Resolver) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	scheme := Scheme(location)
	o, ok := r.openers[scheme]
	if !ok {
		return nil, fmt.Errorf("no source configured for scheme %q", scheme)
	}

	raw, err := o.OpenRaw(ctx, location)
	if err != nil {
		return nil, err
	}

	rc, err := Decompress(raw, r.maxBytes)
	if err != nil {
		raw.Close()
		return nil, err
	}
	return &chainCloser{ReadCloser: rc, next: raw}, nil
}

// Scheme returns the lower-cased URL scheme of location, or "file" for a
// plain path.
func Scheme(location string) string {
	if !strings.Contains(location, "://") {
		return "file"
	}
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// chainCloser closes the decompressor and then the underlying stream.
type chainCloser struct {
	io.ReadCloser
	next io.Closer
}

func (c *chainCloser) Close() error {
	err := c.ReadCloser.Close()
	if nerr := c.next.Close(); err == nil {
		err = nerr
	}
	return err
}

// Compile-time check that Resolver implements catalog.Source interface
var _ catalog.Source = (*Resolver)(nil)
