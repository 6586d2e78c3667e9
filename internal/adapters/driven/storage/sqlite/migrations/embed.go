// Package migrations holds the numbered schema files applied by the
// sqlite search index.
package migrations

import "embed"

// FS holds NNN_name.up.sql and matching .down.sql files. Ups apply in lexical order.
//
//go:embed *.sql
var FS embed.FS
