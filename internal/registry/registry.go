// Package registry defines the closed value sets that make up a registry key:
// the (abiVersion, abiArch, repository, period) tuple identifying a package feed.
//
// The value lists declared here are the only source of truth. Validation,
// filter-option reporting and the store's CHECK constraints all follow them.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidValue is returned when a string is not a member of a registry set.
var ErrInvalidValue = errors.New("invalid registry value")

// AbiVersion is the target operating-system ABI revision.
type AbiVersion string

// AbiArch is the CPU architecture a package build targets.
type AbiArch string

// Repository is the distribution channel a build belongs to.
type Repository string

// Period is the release cadence a build belongs to.
type Period string

// LicenseLogic describes how multiple licenses of a package combine.
type LicenseLogic string

var abiVersions = []AbiVersion{"13", "14", "15"}

var abiArchs = []AbiArch{
	"amd64",
	"aarch64",
	"i386",
	"armv6",
	"armv7",
	"powerpc",
	"powerpc64",
	"powerpc64le",
}

var repositories = []Repository{"base", "kmods", "ports"}

var periods = []Period{
	"latest",
	"latest-2",
	"latest-3",
	"weekly",
	"quarterly",
	"quarterly-2",
	"quarterly-3",
	"release-0",
	"release-1",
	"release-2",
	"release-3",
	"release-4",
	"release-5",
}

var licenseLogics = []LicenseLogic{"single", "or", "and"}

// AbiVersions returns the known ABI versions in declaration order.
func AbiVersions() []AbiVersion { return slices.Clone(abiVersions) }

// AbiArchs returns the known architectures in declaration order.
func AbiArchs() []AbiArch { return slices.Clone(abiArchs) }

// Repositories returns the known repositories in declaration order.
func Repositories() []Repository { return slices.Clone(repositories) }

// Periods returns the known periods in declaration order.
func Periods() []Period { return slices.Clone(periods) }

// LicenseLogics returns the known license combination modes.
func LicenseLogics() []LicenseLogic { return slices.Clone(licenseLogics) }

func (v AbiVersion) Valid() bool   { return slices.Contains(abiVersions, v) }
func (a AbiArch) Valid() bool      { return slices.Contains(abiArchs, a) }
func (r Repository) Valid() bool   { return slices.Contains(repositories, r) }
func (p Period) Valid() bool       { return slices.Contains(periods, p) }
func (l LicenseLogic) Valid() bool { return slices.Contains(licenseLogics, l) }

func parse[T ~string](dimension, s string, set []T) (T, error) {
	v := T(s)
	if !slices.Contains(set, v) {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidValue, dimension, s)
	}
	return v, nil
}

// ParseAbiVersion validates s as an ABI version.
func ParseAbiVersion(s string) (AbiVersion, error) { return parse("abiVersion", s, abiVersions) }

// ParseAbiArch validates s as an architecture.
func ParseAbiArch(s string) (AbiArch, error) { return parse("abiArch", s, abiArchs) }

// ParseRepository validates s as a repository.
func ParseRepository(s string) (Repository, error) { return parse("repository", s, repositories) }

// ParsePeriod validates s as a period.
func ParsePeriod(s string) (Period, error) { return parse("period", s, periods) }

// ParseLicenseLogic validates s as a license logic mode.
func ParseLicenseLogic(s string) (LicenseLogic, error) {
	return parse("licenseLogic", s, licenseLogics)
}

// Key identifies a logical package feed.
type Key struct {
	AbiVersion AbiVersion `json:"abiVersion"`
	AbiArch    AbiArch    `json:"abiArch"`
	Repository Repository `json:"repository"`
	Period     Period     `json:"period"`
}

// NewKey parses and validates all four dimensions.
func NewKey(abiVersion, abiArch, repository, period string) (Key, error) {
	var k Key
	var err error
	if k.AbiVersion, err = ParseAbiVersion(abiVersion); err != nil {
		return Key{}, err
	}
	if k.AbiArch, err = ParseAbiArch(abiArch); err != nil {
		return Key{}, err
	}
	if k.Repository, err = ParseRepository(repository); err != nil {
		return Key{}, err
	}
	if k.Period, err = ParsePeriod(period); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Validate reports the first dimension that is not a member of its set.
func (k Key) Validate() error {
	_, err := NewKey(string(k.AbiVersion), string(k.AbiArch), string(k.Repository), string(k.Period))
	return err
}

// String renders the key in URL order: abiVersion/abiArch/repository/period.
func (k Key) String() string {
	return strings.Join([]string{string(k.AbiVersion), string(k.AbiArch), string(k.Repository), string(k.Period)}, "/")
}

// KeyFromABI derives the ABI version and architecture from a pkg ABI string
// such as "FreeBSD:14:amd64".
func KeyFromABI(abi string) (AbiVersion, AbiArch, error) {
	parts := strings.Split(abi, ":")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("%w: malformed abi %q", ErrInvalidValue, abi)
	}
	version, err := ParseAbiVersion(parts[1])
	if err != nil {
		return "", "", err
	}
	arch, err := ParseAbiArch(parts[2])
	if err != nil {
		return "", "", err
	}
	return version, arch, nil
}

// Options lists every value of the four registry dimensions.
type Options struct {
	AbiVersions  []AbiVersion `json:"abiVersions"`
	AbiArchs     []AbiArch    `json:"abiArchs"`
	Repositories []Repository `json:"repositories"`
	Periods      []Period     `json:"periods"`
}

// FilterOptions returns the value lists a caller may filter on.
func FilterOptions() Options {
	return Options{
		AbiVersions:  AbiVersions(),
		AbiArchs:     AbiArchs(),
		Repositories: Repositories(),
		Periods:      Periods(),
	}
}
