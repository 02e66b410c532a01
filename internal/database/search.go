package database

import (
	"strings"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
)

// likeEscaper makes a user query match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildPackageFilter composes the WHERE clause shared by search and count.
// It returns an empty clause when the filter has no constraints. The text
// query is matched with fold, the Unicode lowercasing function registered on
// every connection.
func buildPackageFilter(filter model.PackageFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Query != "" {
		pattern := "%" + likeEscaper.Replace(filter.Query) + "%"
		conds = append(conds, `(fold(name) LIKE fold(?) ESCAPE '\' OR fold(description) LIKE fold(?) ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if filter.Repository != nil {
		conds = append(conds, "repository = ?")
		args = append(args, string(*filter.Repository))
	}
	if filter.AbiVersion != nil {
		conds = append(conds, "abi_version = ?")
		args = append(args, string(*filter.AbiVersion))
	}
	if filter.AbiArch != nil {
		conds = append(conds, "abi_arch = ?")
		args = append(args, string(*filter.AbiArch))
	}
	if filter.Period != nil {
		conds = append(conds, "period = ?")
		args = append(args, string(*filter.Period))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
