// Package migrations embeds the schema migration files so the binary
// can migrate without a deploy-time file layout.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
