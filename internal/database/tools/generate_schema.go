// generate_schema applies every migration to an in-memory database and
// writes the resulting DDL to internal/database/sqlc/schema.sql, which sqlc
// reads and tests load through database.Schema.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/database"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/database/migrations"
)

const header = `-- This file is auto-generated from migration files.
-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.
-- Source: internal/database/migrations/files/*.sql

`

func main() {
	if err := run(filepath.Join("internal", "database", "sqlc", "schema.sql")); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
}

func run(outPath string) error {
	db, err := database.OpenConnection(database.MemoryPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}

	statements, err := schemaStatements(db)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(header)
	for _, stmt := range statements {
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}

	if err := os.WriteFile(outPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("generated %s (%d statements)\n", outPath, len(statements))
	return nil
}

// schemaStatements returns the CREATE statements of user tables and indexes,
// tables first. golang-migrate's bookkeeping table is left out.
func schemaStatements(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT sql
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 1 ELSE 2 END, name
	`)
	if err != nil {
		return nil, fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	var statements []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return nil, fmt.Errorf("scanning schema row: %w", err)
		}
		statements = append(statements, stmt)
	}
	return statements, rows.Err()
}
