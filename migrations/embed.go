// Package migrations embeds the versioned SQL schema applied by cmd/migrate
// and by the migration integration test.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
