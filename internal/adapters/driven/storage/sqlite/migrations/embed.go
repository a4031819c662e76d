// Package migrations holds the numbered SQL files that build the result cache schema.
package migrations

import "embed"

// FS holds the up and down migrations, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
