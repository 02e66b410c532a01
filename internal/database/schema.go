package database

import _ "embed"

// schema.sql and the sqlc package are regenerated from the migrations with
//
//	go generate ./internal/database

//go:generate sh -c "cd ../.. && go run internal/database/tools/generate_schema.go"
//go:generate sh -c "cd ../.. && sqlc generate -f internal/database/sqlc/sqlc.yaml"

// Schema is the schema produced by applying every migration, for tests that
// need a ready database without running golang-migrate.
//
//go:embed sqlc/schema.sql
var Schema string
