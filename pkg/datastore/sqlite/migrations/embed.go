package migrations

import "embed"

// FS contains the embedded dataset store schema.
//
//go:embed *.sql
var FS embed.FS
