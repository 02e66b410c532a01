package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// DefaultKey is the registry key most tests import under.
var DefaultKey = registry.Key{
	AbiVersion: "14",
	AbiArch:    "amd64",
	Repository: "ports",
	Period:     "latest",
}

// Descriptor returns a complete pkg descriptor for name as a JSON object map,
// so tests can delete or override single fields before encoding.
func Descriptor(name string) map[string]any {
	return map[string]any{
		"name":         name,
		"origin":       "misc/" + name,
		"version":      "1.0.0",
		"comment":      "The " + name + " package",
		"maintainer":   "ports@FreeBSD.org",
		"www":          "https://example.org/" + name,
		"abi":          "FreeBSD:14:amd64",
		"arch":         "freebsd:14:x86:64",
		"prefix":       "/usr/local",
		"sum":          "0123456789abcdef",
		"flatsize":     4096,
		"path":         "All/" + name + "-1.0.0.pkg",
		"repopath":     "All/" + name + "-1.0.0.pkg",
		"licenselogic": "single",
		"licenses":     []string{"BSD2CLAUSE"},
		"pkgsize":      1024,
		"desc":         "Line one of " + name + ".\nLine two.",
		"categories":   []string{"misc"},
		"annotations": map[string]any{
			"FreeBSD_version":            "1402000",
			"build_timestamp":            "2025-05-30T10:00:00+0000",
			"built_by":                   "poudriere-git-3.4.2",
			"port_checkout_unclean":      "no",
			"port_git_hash":              "abc1234",
			"ports_top_checkout_unclean": "no",
			"ports_top_git_hash":         "def5678",
		},
	}
}

// JSONLines encodes descriptors one per line.
func JSONLines(t *testing.T, descriptors ...map[string]any) []byte {
	t.Helper()

	var b strings.Builder
	for _, d := range descriptors {
		line, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("encoding descriptor: %v", err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// JSONArray encodes descriptors as a single top-level array.
func JSONArray(t *testing.T, descriptors ...map[string]any) []byte {
	t.Helper()

	data, err := json.MarshalIndent(descriptors, "", "  ")
	if err != nil {
		t.Fatalf("encoding descriptors: %v", err)
	}
	return data
}

// Descriptors returns n descriptors named pkg-0001, pkg-0002, ...
func Descriptors(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = Descriptor(fmt.Sprintf("pkg-%04d", i+1))
	}
	return out
}
