package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/sqlc"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// packageArgs returns the bound values for one row, in insertColumns order.
// JSON columns carry a nil collection as NULL and an empty one as [] or {}.
func packageArgs(p *model.Package) ([]any, error) {
	categories, err := encodeRequired(p.Categories, "[]")
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	shlibsRequired, err := encodeRequired(p.ShlibsRequired, "[]")
	if err != nil {
		return nil, fmt.Errorf("shlibs_required: %w", err)
	}
	annotations, err := json.Marshal(p.Annotations)
	if err != nil {
		return nil, fmt.Errorf("annotations: %w", err)
	}
	licenses, err := encodeSlice(p.Licenses)
	if err != nil {
		return nil, fmt.Errorf("licenses: %w", err)
	}
	dependencies, err := encodeMap(p.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	options, err := encodeMap(p.Options)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	messages, err := encodeSlice(p.Messages)
	if err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	shlibsProvided, err := encodeSlice(p.ShlibsProvided)
	if err != nil {
		return nil, fmt.Errorf("shlibs_provided: %w", err)
	}
	users, err := encodeSlice(p.Users)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	groups, err := encodeSlice(p.Groups)
	if err != nil {
		return nil, fmt.Errorf("groups: %w", err)
	}

	var licenseLogic sql.NullString
	if p.LicenseLogic != nil {
		licenseLogic = sql.NullString{String: string(*p.LicenseLogic), Valid: true}
	}

	return []any{
		string(p.AbiVersion), string(p.AbiArch), string(p.Repository), string(p.Period),
		p.Name, p.Origin, p.Version, p.Comment, p.Maintainer, nullString(p.WWW),
		p.ABI, p.Arch, p.Prefix, p.Sum, nullInt64(p.FlatSize), p.Path, nullString(p.RepoPath),
		licenseLogic, licenses, nullInt64(p.PkgSize), p.Description, categories,
		shlibsRequired, string(annotations), dependencies, options, messages,
		shlibsProvided, users, groups,
	}, nil
}

// packageFromRow converts a stored row back into the domain shape.
func packageFromRow(row *sqlc.Package) (*model.Package, error) {
	p := &model.Package{
		ID:          row.ID,
		AbiVersion:  registry.AbiVersion(row.AbiVersion),
		AbiArch:     registry.AbiArch(row.AbiArch),
		Repository:  registry.Repository(row.Repository),
		Period:      registry.Period(row.Period),
		Name:        row.Name,
		Origin:      row.Origin,
		Version:     row.Version,
		Comment:     row.Comment,
		Maintainer:  row.Maintainer,
		WWW:         stringPtr(row.Www),
		ABI:         row.Abi,
		Arch:        row.Arch,
		Prefix:      row.Prefix,
		Sum:         row.Sum,
		FlatSize:    int64Ptr(row.FlatSize),
		Path:        row.Path,
		RepoPath:    stringPtr(row.RepoPath),
		PkgSize:     int64Ptr(row.PkgSize),
		Description: row.Description,
	}

	if row.LicenseLogic.Valid {
		logic := registry.LicenseLogic(row.LicenseLogic.String)
		p.LicenseLogic = &logic
	}

	var err error
	if p.Categories, err = decodeRequired[string](row.Categories); err != nil {
		return nil, fmt.Errorf("decoding categories of package %d: %w", row.ID, err)
	}
	if p.ShlibsRequired, err = decodeRequired[string](row.ShlibsRequired); err != nil {
		return nil, fmt.Errorf("decoding shlibs_required of package %d: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Annotations), &p.Annotations); err != nil {
		return nil, fmt.Errorf("decoding annotations of package %d: %w", row.ID, err)
	}
	if p.Licenses, err = decodeSlice[string](row.Licenses); err != nil {
		return nil, fmt.Errorf("decoding licenses of package %d: %w", row.ID, err)
	}
	if p.Dependencies, err = decodeMap[model.Dependency](row.Dependencies); err != nil {
		return nil, fmt.Errorf("decoding dependencies of package %d: %w", row.ID, err)
	}
	if p.Options, err = decodeMap[string](row.Options); err != nil {
		return nil, fmt.Errorf("decoding options of package %d: %w", row.ID, err)
	}
	if p.Messages, err = decodeSlice[model.Message](row.Messages); err != nil {
		return nil, fmt.Errorf("decoding messages of package %d: %w", row.ID, err)
	}
	if p.ShlibsProvided, err = decodeSlice[string](row.ShlibsProvided); err != nil {
		return nil, fmt.Errorf("decoding shlibs_provided of package %d: %w", row.ID, err)
	}
	if p.Users, err = decodeSlice[string](row.Users); err != nil {
		return nil, fmt.Errorf("decoding users of package %d: %w", row.ID, err)
	}
	if p.Groups, err = decodeSlice[string](row.Groups); err != nil {
		return nil, fmt.Errorf("decoding groups of package %d: %w", row.ID, err)
	}

	return p, nil
}

func encodeRequired[T any](s []T, empty string) (string, error) {
	if s == nil {
		return empty, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeSlice[T any](s []T) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func encodeMap[V any](m map[string]V) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeRequired[T any](s string) ([]T, error) {
	out := []T{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func decodeSlice[T any](ns sql.NullString) ([]T, error) {
	if !ns.Valid {
		return nil, nil
	}
	out := []T{}
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeMap[V any](ns sql.NullString) (map[string]V, error) {
	if !ns.Valid {
		return nil, nil
	}
	out := map[string]V{}
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
