// Package migrations embeds the SQL schema of the mystery box service.
package migrations

import "embed"

// FS holds every *.up.sql file, applied in filename order by
// database.RunMigrations.
//
//go:embed *.sql
var FS embed.FS
