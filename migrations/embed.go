// Package migrations holds the goose SQL migrations of the database schema.
// They are embedded so the server binary can apply them without the source tree.
package migrations

import "embed"

// FS contains every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
