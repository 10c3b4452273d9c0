package migrations

import "embed"

// FS holds the goose SQL migrations of the agent schema.
//
//go:embed *.sql
var FS embed.FS
