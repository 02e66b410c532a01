package model

import "github.com/fel1x-developer/pkg.freebsd.org/internal/registry"

// Package is one stored package build. Slice and map fields distinguish nil
// (stored as NULL) from empty (stored as an empty JSON collection).
type Package struct {
	ID           int64                  `json:"id"`
	AbiVersion   registry.AbiVersion    `json:"abiVersion"`
	AbiArch      registry.AbiArch       `json:"abiArch"`
	Repository   registry.Repository    `json:"repository"`
	Period       registry.Period        `json:"period"`
	Name         string                 `json:"name"`
	Origin       string                 `json:"origin"`
	Version      string                 `json:"version"`
	Comment      string                 `json:"comment"`
	Maintainer   string                 `json:"maintainer"`
	WWW          *string                `json:"www"`
	ABI          string                 `json:"abi"`
	Arch         string                 `json:"arch"`
	Prefix       string                 `json:"prefix"`
	Sum          string                 `json:"sum"`
	FlatSize     *int64                 `json:"flatSize"`
	Path         string                 `json:"path"`
	RepoPath     *string                `json:"repoPath"`
	LicenseLogic *registry.LicenseLogic `json:"licenseLogic"`
	Licenses     []string               `json:"licenses"`
	PkgSize      *int64                 `json:"pkgSize"`
	Description  string                 `json:"description"`
	Categories   []string               `json:"categories"`
	// ShlibsRequired is never nil.
	ShlibsRequired []string              `json:"shlibsRequired"`
	Annotations    Annotations           `json:"annotations"`
	Dependencies   map[string]Dependency `json:"dependencies"`
	Options        map[string]string     `json:"options"`
	Messages       []Message             `json:"messages"`
	ShlibsProvided []string              `json:"shlibsProvided"`
	Users          []string              `json:"users"`
	Groups         []string              `json:"groups"`
}

// Key returns the registry key the package was imported under.
func (p *Package) Key() registry.Key {
	return registry.Key{
		AbiVersion: p.AbiVersion,
		AbiArch:    p.AbiArch,
		Repository: p.Repository,
		Period:     p.Period,
	}
}

// Annotations holds the build annotations pkg records for a package.
type Annotations struct {
	FreeBSDVersion          string  `json:"FreeBSD_version"`
	BuildTimestamp          string  `json:"build_timestamp"`
	BuiltBy                 string  `json:"built_by"`
	PortCheckoutUnclean     string  `json:"port_checkout_unclean"`
	PortGitHash             string  `json:"port_git_hash"`
	PortsTopCheckoutUnclean string  `json:"ports_top_checkout_unclean"`
	PortsTopGitHash         string  `json:"ports_top_git_hash"`
	CPE                     *string `json:"cpe"`
	Flavor                  *string `json:"flavor"`
	Deprecated              *string `json:"deprecated"`
	ExpirationDate          *string `json:"expiration_date"`
	NoProvideShlib          *string `json:"no_provide_shlib"`
	Subpackage              *string `json:"subpackage"`
}

// Dependency is one entry of a package's dependency map, keyed by name.
type Dependency struct {
	Origin  string `json:"origin"`
	Version string `json:"version"`
}

// Message is an installation message shown by pkg.
type Message struct {
	Message        string `json:"message"`
	Type           string `json:"type,omitempty"`
	MaximumVersion string `json:"maximum_version,omitempty"`
	MinimumVersion string `json:"minimum_version,omitempty"`
}

// Summary is the lightweight projection returned by searches.
type Summary struct {
	ID         int64               `json:"id"`
	Name       string              `json:"name"`
	AbiVersion registry.AbiVersion `json:"abiVersion"`
	AbiArch    registry.AbiArch    `json:"abiArch"`
	Repository registry.Repository `json:"repository"`
	Period     registry.Period     `json:"period"`
	Version    string              `json:"version"`
	Comment    string              `json:"comment"`
}

// PackageFilter is a conjunctive search predicate. Empty Query and nil
// dimensions leave the corresponding column unconstrained.
type PackageFilter struct {
	Query      string
	AbiVersion *registry.AbiVersion
	AbiArch    *registry.AbiArch
	Repository *registry.Repository
	Period     *registry.Period
}
