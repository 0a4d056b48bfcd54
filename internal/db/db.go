// Package db persists session transcripts in a SQLite database under
// the data directory.
package db

import "embed"

//go:embed migrations/*.sql
var FS embed.FS
