package source

import (
	"archive/tar"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	tarMagic  = []byte("ustar")
)

// tarMagicOffset is where the ustar magic lives in a tar header block.
const tarMagicOffset = 257

// catalogMembers are the archive members that hold descriptors, in the
// order they are preferred. packagesite.pkg carries packagesite.yaml (JSON
// lines despite the name); data.pkg carries data (an object with packages).
var catalogMembers = []string{"packagesite.yaml", "packagesite.json", "data"}

// ErrNoCatalogMember is returned for a tar archive without a descriptor member.
var ErrNoCatalogMember = errors.New("archive has no packagesite.yaml, packagesite.json or data member")

// ErrTooLarge is returned once a decompressed stream passes its size limit.
var ErrTooLarge = errors.New("descriptor stream exceeds size limit")

// Decompress detects gzip, zstd and xz by their magic bytes and undoes them.
// A tar archive, compressed or not, is opened and its descriptor member
// returned. Anything else is passed through unchanged.
//
// When maxBytes is positive, reading more than maxBytes decompressed bytes
// fails with ErrTooLarge. The limit covers the whole tar stream, so a
// buffered member never exceeds it either.
func Decompress(r io.Reader, maxBytes int64) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(len(xzMagic))

	var (
		stream io.Reader = br
		closer func() error
	)
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		stream, closer = gr, gr.Close
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		stream, closer = zr, func() error { zr.Close(); return nil }
	case bytes.HasPrefix(head, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening xz stream: %w", err)
		}
		stream = xr
	}
	if maxBytes > 0 {
		stream = &capReader{r: stream, left: maxBytes, max: maxBytes}
	}

	rc, err := extractCatalog(stream)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, err
	}
	return &readCloser{Reader: rc, close: closer}, nil
}

// extractCatalog returns the descriptor member when r is a tar archive and
// r itself otherwise.
func extractCatalog(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 1024)
	head, _ := br.Peek(tarMagicOffset + len(tarMagic))
	if len(head) < tarMagicOffset+len(tarMagic) || !bytes.Equal(head[tarMagicOffset:], tarMagic) {
		return br, nil
	}

	members := make(map[string][]byte)
	tr := tar.NewReader(br)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := path.Base(hdr.Name)
		for _, want := range catalogMembers {
			if name == want {
				data, err := io.ReadAll(tr)
				if err != nil {
					return nil, fmt.Errorf("reading %s: %w", hdr.Name, err)
				}
				members[name] = data
			}
		}
	}

	for _, want := range catalogMembers {
		if data, ok := members[want]; ok {
			return bytes.NewReader(data), nil
		}
	}
	return nil, ErrNoCatalogMember
}

// capReader passes through at most max bytes and fails the read that would
// return byte max+1. Unlike io.LimitReader it never truncates silently.
type capReader struct {
	r    io.Reader
	left int64
	max  int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.left <= 0 {
		// One more byte tells an exact fit from an overflow.
		var b [1]byte
		n, err := c.r.Read(b[:])
		if n > 0 {
			return 0, fmt.Errorf("%w of %d bytes", ErrTooLarge, c.max)
		}
		return 0, err
	}
	if int64(len(p)) > c.left {
		p = p[:c.left]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	return n, err
}

type readCloser struct {
	io.Reader
	close func() error
}

func (rc *readCloser) Close() error {
	if rc.close == nil {
		return nil
	}
	return rc.close()
}
