package catalog

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// ErrInvalidRecord marks a descriptor that cannot become a stored package.
var ErrInvalidRecord = errors.New("invalid package record")

// Descriptor is one package record as emitted by pkg. Pointer, slice and map
// fields keep JSON null or absent apart from present-but-empty.
type Descriptor struct {
	Name       string  `json:"name"`
	Origin     string  `json:"origin"`
	Version    string  `json:"version"`
	Comment    string  `json:"comment"`
	Maintainer string  `json:"maintainer"`
	WWW        string  `json:"www"`
	ABI        string  `json:"abi"`
	Arch       string  `json:"arch"`
	Prefix     string  `json:"prefix"`
	Sum        string  `json:"sum"`
	FlatSize   *int64  `json:"flatsize"`
	Path       string  `json:"path"`
	RepoPath   *string `json:"repopath"`
	PkgSize    *int64  `json:"pkgsize"`
	Desc       string  `json:"desc"`

	LicenseLogic *string  `json:"licenselogic"`
	Licenses     []string `json:"licenses"`

	Categories     []string                    `json:"categories"`
	ShlibsRequired []string                    `json:"shlibs_required"`
	ShlibsProvided []string                    `json:"shlibs_provided"`
	Annotations    *model.Annotations          `json:"annotations"`
	Deps           map[string]model.Dependency `json:"deps"`
	Options        map[string]string           `json:"options"`
	Messages       []model.Message             `json:"messages"`
	Users          []string                    `json:"users"`
	Groups         []string                    `json:"groups"`

	// Registry fields carried by records imported without an explicit key.
	AbiVersion string `json:"abi_version"`
	AbiArch    string `json:"abi_arch"`
	Repository string `json:"repository"`
	Period     string `json:"period"`
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// normalizeDescription collapses every run of line breaks into one space.
func normalizeDescription(s string) string {
	return lineBreaks.ReplaceAllString(s, " ")
}

// Transform validates d and maps it onto the stored row shape. When key is
// nil the registry key is read from the record itself.
func Transform(d *Descriptor, key *registry.Key) (*model.Package, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidRecord)
	}
	if d.Origin == "" {
		return nil, fmt.Errorf("%w: %s: missing origin", ErrInvalidRecord, d.Name)
	}
	if d.Version == "" {
		return nil, fmt.Errorf("%w: %s: missing version", ErrInvalidRecord, d.Name)
	}
	if d.FlatSize != nil && *d.FlatSize < 0 {
		return nil, fmt.Errorf("%w: %s: negative flatsize %d", ErrInvalidRecord, d.Name, *d.FlatSize)
	}
	if d.PkgSize != nil && *d.PkgSize < 0 {
		return nil, fmt.Errorf("%w: %s: negative pkgsize %d", ErrInvalidRecord, d.Name, *d.PkgSize)
	}

	k, err := recordKey(d, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRecord, d.Name, err)
	}

	var licenseLogic *registry.LicenseLogic
	if d.LicenseLogic != nil {
		l, err := registry.ParseLicenseLogic(*d.LicenseLogic)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRecord, d.Name, err)
		}
		licenseLogic = &l
	}

	p := &model.Package{
		AbiVersion:     k.AbiVersion,
		AbiArch:        k.AbiArch,
		Repository:     k.Repository,
		Period:         k.Period,
		Name:           d.Name,
		Origin:         d.Origin,
		Version:        d.Version,
		Comment:        d.Comment,
		Maintainer:     d.Maintainer,
		ABI:            d.ABI,
		Arch:           d.Arch,
		Prefix:         d.Prefix,
		Sum:            d.Sum,
		FlatSize:       d.FlatSize,
		Path:           d.Path,
		RepoPath:       d.RepoPath,
		LicenseLogic:   licenseLogic,
		Licenses:       d.Licenses,
		PkgSize:        d.PkgSize,
		Description:    normalizeDescription(d.Desc),
		Categories:     d.Categories,
		ShlibsRequired: d.ShlibsRequired,
		Dependencies:   d.Deps,
		Options:        d.Options,
		Messages:       d.Messages,
		ShlibsProvided: d.ShlibsProvided,
		Users:          d.Users,
		Groups:         d.Groups,
	}

	if d.WWW != "" {
		www := d.WWW
		p.WWW = &www
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.ShlibsRequired == nil {
		p.ShlibsRequired = []string{}
	}
	if d.Annotations != nil {
		p.Annotations = *d.Annotations
	}

	return p, nil
}

func recordKey(d *Descriptor, key *registry.Key) (registry.Key, error) {
	if key != nil {
		return *key, key.Validate()
	}

	abiVersion, abiArch := d.AbiVersion, d.AbiArch
	if abiVersion == "" || abiArch == "" {
		v, a, err := registry.KeyFromABI(d.ABI)
		if err != nil {
			return registry.Key{}, err
		}
		if abiVersion == "" {
			abiVersion = string(v)
		}
		if abiArch == "" {
			abiArch = string(a)
		}
	}

	return registry.NewKey(abiVersion, abiArch, d.Repository, d.Period)
}
