package migrations

import "embed"

// FS contains the schema migrations, one directory per SQL dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
