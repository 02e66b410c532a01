package app

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// ErrUsage is returned for a command line with the wrong shape.
var ErrUsage = errors.New("invalid arguments")

// ParseImportArgs accepts the two import shapes:
//
//	<location> [batch-size]
//	<location> <abiVersion> <abiArch> <repository> <period> [batch-size]
//
// In the first shape every record carries its own registry key.
func ParseImportArgs(args []string) (catalog.ImportOptions, error) {
	var opts catalog.ImportOptions

	switch len(args) {
	case 1, 2:
		opts.Location = args[0]
		args = args[1:]
	case 5, 6:
		key, err := registry.NewKey(args[1], args[2], args[3], args[4])
		if err != nil {
			return catalog.ImportOptions{}, err
		}
		opts.Location = args[0]
		opts.Registry = &key
		args = args[5:]
	default:
		return catalog.ImportOptions{}, fmt.Errorf("%w: import takes 1, 2, 5 or 6 arguments, got %d", ErrUsage, len(args))
	}

	if opts.Location == "" {
		return catalog.ImportOptions{}, fmt.Errorf("%w: empty location", ErrUsage)
	}

	if len(args) == 1 {
		n, err := parseBatchSize(args[0])
		if err != nil {
			return catalog.ImportOptions{}, err
		}
		opts.BatchSize = n
	}
	return opts, nil
}

func parseBatchSize(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", catalog.ErrInvalidBatchSize, s)
	}
	return n, nil
}

// ShowTarget selects a package either by id or by registry key and name.
type ShowTarget struct {
	ID   int64
	Key  registry.Key
	Name string
}

// ByID reports whether the target is a surrogate id.
func (t ShowTarget) ByID() bool { return t.ID != 0 }

// ParseShowArgs accepts <id> or <abiVersion> <abiArch> <repository> <period> <name>.
func ParseShowArgs(args []string) (ShowTarget, error) {
	switch len(args) {
	case 1:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id < 1 {
			return ShowTarget{}, fmt.Errorf("%w: package id must be a positive integer, got %q", ErrUsage, args[0])
		}
		return ShowTarget{ID: id}, nil
	case 5:
		key, err := registry.NewKey(args[0], args[1], args[2], args[3])
		if err != nil {
			return ShowTarget{}, err
		}
		if args[4] == "" {
			return ShowTarget{}, fmt.Errorf("%w: empty package name", ErrUsage)
		}
		return ShowTarget{Key: key, Name: args[4]}, nil
	default:
		return ShowTarget{}, fmt.Errorf("%w: show takes 1 or 5 arguments, got %d", ErrUsage, len(args))
	}
}
