package migrations

import "embed"

// FS contains the goose migrations for the transcript store.
//
//go:embed *.sql
var FS embed.FS
